package dto

import (
	"reflect"
	"testing"
)

func TestNewPageComputesTotalsAndWindow(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 0, 2, 19)

	if page.TotalPages != 10 {
		t.Fatalf("unexpected totalPages: got %d want 10", page.TotalPages)
	}
	if !reflect.DeepEqual(page.Window.Pages, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected window pages: %v", page.Window.Pages)
	}
	if !page.Window.ShowLast || !page.Window.TrailingGap {
		t.Fatalf("window must point at the last page: %+v", page.Window)
	}
	if page.Window.ShowFirst {
		t.Fatalf("first page is already visible: %+v", page.Window)
	}
}

func TestNewPageEmptyResult(t *testing.T) {
	page := NewPage[string](nil, 0, 12, 0)

	if page.Content == nil || len(page.Content) != 0 {
		t.Fatalf("content must be an empty slice, got %#v", page.Content)
	}
	if page.TotalPages != 0 {
		t.Fatalf("unexpected totalPages: got %d want 0", page.TotalPages)
	}
	if len(page.Window.Pages) != 0 {
		t.Fatalf("no pager expected for an empty result: %+v", page.Window)
	}
}
