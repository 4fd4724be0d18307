// Package pagination computes page windows for fixed-size admin listings.
package pagination

// DefaultPageSize is the page size used by the admin session list.
const DefaultPageSize = 10

// Page describes one window into a listing plus the state the navigation
// controls need. RangeStart/RangeEnd are 1-based row positions for the
// "Showing X–Y of N" caption; both are 0 when the listing is empty.
type Page struct {
	Offset     int
	ActivePage int
	TotalPages int
	RangeStart int
	RangeEnd   int
	TotalCount int
}

// Paginate clamps the requested 1-based page into range and computes the
// window. A non-positive requested page (the parse-failure default) becomes
// page 1; an empty listing still reports one page.
func Paginate(totalCount, requestedPage, pageSize int) Page {
	totalPages := 1
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	active := requestedPage
	if active < 1 {
		active = 1
	}
	if active > totalPages {
		active = totalPages
	}

	offset := (active - 1) * pageSize

	p := Page{
		Offset:     offset,
		ActivePage: active,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}
	if totalCount > 0 {
		p.RangeStart = min(offset+1, totalCount)
		p.RangeEnd = min(offset+pageSize, totalCount)
	}
	return p
}

// ClampRangeEnd lowers RangeEnd when the store returned fewer rows than the
// window allows (a shrinking last page under concurrent deletes).
func (p Page) ClampRangeEnd(returned int) Page {
	if returned < p.RangeEnd-p.Offset {
		p.RangeEnd = p.Offset + returned
		if returned == 0 {
			p.RangeStart = 0
		}
	}
	return p
}

// PrevPage is the "Previous" link target, clamped at 1.
func (p Page) PrevPage() int {
	if p.ActivePage <= 1 {
		return 1
	}
	return p.ActivePage - 1
}

// NextPage is the "Next" link target, clamped at the last page.
func (p Page) NextPage() int {
	if p.ActivePage >= p.TotalPages {
		return p.TotalPages
	}
	return p.ActivePage + 1
}

// HasPrev reports whether the "Previous" control is enabled.
func (p Page) HasPrev() bool { return p.ActivePage > 1 }

// HasNext reports whether the "Next" control is enabled.
func (p Page) HasNext() bool { return p.TotalCount > 0 && p.ActivePage < p.TotalPages }

// PageNumbers enumerates 1..TotalPages for page-number links.
func (p Page) PageNumbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
