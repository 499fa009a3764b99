package search

// DefaultPageSize is the number of results shown per page.
const DefaultPageSize = 5

// Paginator slices one ranked result list into fixed-size pages with a
// movable cursor. Moving past either boundary clamps; it never fails.
type Paginator struct {
	results  []Result
	pageSize int
	offset   int
}

// NewPaginator wraps a ranked result list. A non-positive pageSize falls back
// to DefaultPageSize.
func NewPaginator(results []Result, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		results:  results,
		pageSize: pageSize,
	}
}

// Page returns the results on the current page, up to pageSize of them.
func (p *Paginator) Page() []Result {
	if p.offset >= len(p.results) {
		return nil
	}
	end := p.offset + p.pageSize
	if end > len(p.results) {
		end = len(p.results)
	}
	return p.results[p.offset:end]
}

// HasNext reports whether a page exists after the current one.
func (p *Paginator) HasNext() bool {
	return p.offset+p.pageSize < len(p.results)
}

// HasPrevious reports whether a page exists before the current one.
func (p *Paginator) HasPrevious() bool {
	return p.offset > 0
}

// Next advances one page, clamping at the last page.
func (p *Paginator) Next() {
	if p.HasNext() {
		p.offset += p.pageSize
	}
}

// Previous moves back one page, clamping at the first page.
func (p *Paginator) Previous() {
	p.offset -= p.pageSize
	if p.offset < 0 {
		p.offset = 0
	}
}

// Seek jumps to a zero-based page number, clamping into the valid range.
func (p *Paginator) Seek(page int) {
	if page < 0 {
		page = 0
	}
	last := p.TotalPages() - 1
	if last < 0 {
		last = 0
	}
	if page > last {
		page = last
	}
	p.offset = page * p.pageSize
}

// Reset replaces the result list with a fresh query's results and rewinds the
// cursor to the first page.
func (p *Paginator) Reset(results []Result) {
	p.results = results
	p.offset = 0
}

// PageNumber returns the zero-based index of the current page.
func (p *Paginator) PageNumber() int {
	return p.offset / p.pageSize
}

// TotalPages returns the number of pages, zero when there are no results.
func (p *Paginator) TotalPages() int {
	return (len(p.results) + p.pageSize - 1) / p.pageSize
}

// Total returns the total number of results.
func (p *Paginator) Total() int {
	return len(p.results)
}
