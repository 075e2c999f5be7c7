package domain

// PageWindowSize is the number of page links shown at once.
const PageWindowSize = 5

// PageWindow is the visible range of page numbers around the current page.
type PageWindow struct {
	Pages   []int `json:"pages"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// Window computes the page links for currentPage out of totalPages.
//
// The window is anchored two pages before the current one, clamped to the last
// page, and then re-anchored from its end so that it keeps PageWindowSize
// entries near the end of the range.
func Window(currentPage, totalPages int) PageWindow {
	if totalPages <= 1 {
		return PageWindow{Pages: []int{}}
	}

	start := max(1, currentPage-2)
	end := min(start+PageWindowSize-1, totalPages)
	start = max(1, end-PageWindowSize+1)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return PageWindow{
		Pages:   pages,
		HasPrev: currentPage > 1,
		HasNext: currentPage < totalPages,
	}
}
