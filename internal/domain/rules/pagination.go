package rules

// PageWindow is the set of page buttons rendered for a paged list:
// up to five numbered pages centered on the current one, with the
// first and last pages always reachable through ellipsis markers.
type PageWindow struct {
	Pages       []int
	ShowFirst   bool
	LeadingGap  bool
	ShowLast    bool
	TrailingGap bool
}

// VisiblePages computes the window for a 1-based current page. An
// empty result (no pages) means no pagination control should render.
func VisiblePages(currentPage, totalPages int) PageWindow {
	if totalPages <= 0 {
		return PageWindow{}
	}
	const maxVisible = 5

	start := currentPage - 2
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > totalPages {
		end = totalPages
		start = end - maxVisible + 1
		if start < 1 {
			start = 1
		}
	}

	w := PageWindow{}
	for p := start; p <= end; p++ {
		w.Pages = append(w.Pages, p)
	}
	if start > 1 {
		w.ShowFirst = true
		w.LeadingGap = start > 2
	}
	if end < totalPages {
		w.ShowLast = true
		w.TrailingGap = end < totalPages-1
	}
	return w
}
