package search

import (
	"fmt"
	"testing"
)

func rankedResults(n int) []Result {
	results := make([]Result, n)
	for i := range results {
		results[i] = Result{
			DocID: fmt.Sprintf("fac%02d", i+1),
			Score: float64(n-i) / float64(n),
		}
	}
	return results
}

func TestPaginatorPagesThroughResults(t *testing.T) {
	p := NewPaginator(rankedResults(12), 5)

	if p.Total() != 12 {
		t.Errorf("Total = %d, want 12", p.Total())
	}
	if p.TotalPages() != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages())
	}

	page := p.Page()
	if len(page) != 5 {
		t.Fatalf("page 1 has %d results, want 5", len(page))
	}
	if page[0].DocID != "fac01" {
		t.Errorf("page 1 starts at %s, want fac01", page[0].DocID)
	}
	if p.HasPrevious() {
		t.Error("first page reports a previous page")
	}
	if !p.HasNext() {
		t.Error("first page of three reports no next page")
	}

	p.Next()
	page = p.Page()
	if len(page) != 5 || page[0].DocID != "fac06" {
		t.Errorf("page 2 = %d results starting at %s, want 5 starting at fac06", len(page), page[0].DocID)
	}
	if !p.HasPrevious() || !p.HasNext() {
		t.Error("middle page should have both neighbours")
	}

	p.Next()
	page = p.Page()
	if len(page) != 2 {
		t.Errorf("last page has %d results, want 2", len(page))
	}
	if page[0].DocID != "fac11" || page[1].DocID != "fac12" {
		t.Errorf("last page = %s, %s, want fac11, fac12", page[0].DocID, page[1].DocID)
	}
	if p.HasNext() {
		t.Error("last page reports a next page")
	}
	if !p.HasPrevious() {
		t.Error("last page reports no previous page")
	}
}

func TestPaginatorClampsAtBoundaries(t *testing.T) {
	p := NewPaginator(rankedResults(7), 5)

	p.Previous()
	if p.PageNumber() != 0 {
		t.Errorf("Previous on first page moved to page %d", p.PageNumber())
	}

	p.Next()
	p.Next()
	p.Next()
	if p.PageNumber() != 1 {
		t.Errorf("Next past last page moved to page %d, want 1", p.PageNumber())
	}
	if len(p.Page()) != 2 {
		t.Errorf("last page has %d results, want 2", len(p.Page()))
	}
}

func TestPaginatorSeekClamps(t *testing.T) {
	p := NewPaginator(rankedResults(12), 5)

	p.Seek(2)
	if p.PageNumber() != 2 {
		t.Errorf("Seek(2) landed on page %d", p.PageNumber())
	}
	p.Seek(99)
	if p.PageNumber() != 2 {
		t.Errorf("Seek(99) landed on page %d, want last page 2", p.PageNumber())
	}
	p.Seek(-4)
	if p.PageNumber() != 0 {
		t.Errorf("Seek(-4) landed on page %d, want 0", p.PageNumber())
	}
}

func TestPaginatorEmptyResults(t *testing.T) {
	p := NewPaginator(nil, 5)
	if p.Page() != nil {
		t.Errorf("Page on empty list = %v, want nil", p.Page())
	}
	if p.HasNext() || p.HasPrevious() {
		t.Error("empty list reports neighbouring pages")
	}
	if p.TotalPages() != 0 {
		t.Errorf("TotalPages = %d, want 0", p.TotalPages())
	}
	p.Next()
	p.Seek(3)
	if p.PageNumber() != 0 {
		t.Errorf("cursor moved on empty list to page %d", p.PageNumber())
	}
}

func TestPaginatorDefaultPageSize(t *testing.T) {
	p := NewPaginator(rankedResults(11), 0)
	if len(p.Page()) != DefaultPageSize {
		t.Errorf("page has %d results, want default %d", len(p.Page()), DefaultPageSize)
	}
}

func TestPaginatorExactMultiple(t *testing.T) {
	p := NewPaginator(rankedResults(10), 5)
	if p.TotalPages() != 2 {
		t.Errorf("TotalPages = %d, want 2", p.TotalPages())
	}
	p.Seek(1)
	if len(p.Page()) != 5 {
		t.Errorf("last page has %d results, want 5", len(p.Page()))
	}
	if p.HasNext() {
		t.Error("last full page reports a next page")
	}
}
