package models

// Pagination describes one page of an ordered result set.
type Pagination struct {
	Page    int
	PerPage int
	Total   int64
}

// NewPagination clamps page to at least 1.
func NewPagination(page, perPage int, total int64) Pagination {
	return Pagination{Page: NormalizePage(page), PerPage: perPage, Total: total}
}

// NormalizePage maps missing, zero and negative page numbers to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pages is the number of pages needed for Total items.
func (p Pagination) Pages() int {
	if p.PerPage < 1 || p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p Pagination) HasNext() bool {
	return p.Total > int64(p.Page)*int64(p.PerPage)
}

// HasPrev is false on an empty result set even past the first page.
func (p Pagination) HasPrev() bool {
	return p.Page > 1 && p.Total > 0
}

func (p Pagination) NextNum() int {
	return p.Page + 1
}

func (p Pagination) PrevNum() int {
	return p.Page - 1
}
