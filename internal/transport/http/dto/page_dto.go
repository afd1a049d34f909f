package dto

import "github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"

// Page is the envelope every paged endpoint returns.
type Page[T any] struct {
	Content       []T        `json:"content"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	Window        PageWindow `json:"window"`
}

// PageWindow tells clients which page buttons to render, so every
// frontend draws the same pager. Pages are 1-based display numbers.
type PageWindow struct {
	Pages       []int `json:"pages"`
	ShowFirst   bool  `json:"showFirst"`
	LeadingGap  bool  `json:"leadingGap"`
	ShowLast    bool  `json:"showLast"`
	TrailingGap bool  `json:"trailingGap"`
}

func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	window := rules.VisiblePages(page+1, totalPages)
	if window.Pages == nil {
		window.Pages = []int{}
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Window: PageWindow{
			Pages:       window.Pages,
			ShowFirst:   window.ShowFirst,
			LeadingGap:  window.LeadingGap,
			ShowLast:    window.ShowLast,
			TrailingGap: window.TrailingGap,
		},
	}
}
