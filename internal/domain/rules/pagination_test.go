package rules

import (
	"reflect"
	"testing"
)

func TestVisiblePages(t *testing.T) {
	cases := []struct {
		name        string
		currentPage int
		totalPages  int
		want        PageWindow
	}{
		{
			name:        "first page of ten",
			currentPage: 1,
			totalPages:  10,
			want: PageWindow{
				Pages:       []int{1, 2, 3, 4, 5},
				ShowLast:    true,
				TrailingGap: true,
			},
		},
		{
			name:        "last page of ten",
			currentPage: 10,
			totalPages:  10,
			want: PageWindow{
				Pages:      []int{6, 7, 8, 9, 10},
				ShowFirst:  true,
				LeadingGap: true,
			},
		},
		{
			name:        "middle page slides the window",
			currentPage: 6,
			totalPages:  10,
			want: PageWindow{
				Pages:       []int{4, 5, 6, 7, 8},
				ShowFirst:   true,
				LeadingGap:  true,
				ShowLast:    true,
				TrailingGap: true,
			},
		},
		{
			name:        "second page keeps first without gap",
			currentPage: 4,
			totalPages:  10,
			want: PageWindow{
				Pages:       []int{2, 3, 4, 5, 6},
				ShowFirst:   true,
				ShowLast:    true,
				TrailingGap: true,
			},
		},
		{
			name:        "fewer pages than the window",
			currentPage: 2,
			totalPages:  3,
			want: PageWindow{
				Pages: []int{1, 2, 3},
			},
		},
		{
			name:        "no pages renders nothing",
			currentPage: 1,
			totalPages:  0,
			want:        PageWindow{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := VisiblePages(tc.currentPage, tc.totalPages)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("VisiblePages(%d, %d) = %+v, want %+v", tc.currentPage, tc.totalPages, got, tc.want)
			}
		})
	}
}
