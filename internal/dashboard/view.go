package dashboard

import "github.com/spec-kit/convodocs/internal/domain"

// DefaultPageSize is the page size of a new View.
const DefaultPageSize = 10

// View keeps the dashboard's filter and paging state over a document collection.
// Changing any filter or the page size resets the page to 0.
// A View is owned by one caller and is not safe for concurrent use.
type View struct {
	docs     []domain.Document
	query    Query
	page     int
	pageSize int
}

// NewView returns a view over docs with no filters.
func NewView(docs []domain.Document) *View {
	return &View{docs: docs, pageSize: DefaultPageSize}
}

// SetDocuments replaces the collection, keeping filters. The page is clamped to the new last page.
func (v *View) SetDocuments(docs []domain.Document) {
	v.docs = docs
	if last := v.PageCount() - 1; v.page > last {
		v.page = max(last, 0)
	}
}

// SetSearch changes the search term.
func (v *View) SetSearch(term string) {
	v.query.Search = term
	v.page = 0
}

// SetTeam constrains the listing to one team; nil clears the constraint.
func (v *View) SetTeam(teamID *string) {
	v.query.TeamID = copyPtr(teamID)
	v.page = 0
}

// SetStatus constrains the listing to one status; nil clears the constraint.
func (v *View) SetStatus(status *domain.DocumentStatus) {
	v.query.Status = copyPtr(status)
	v.page = 0
}

// SetPageSize changes the page size. Non-positive sizes fall back to DefaultPageSize.
func (v *View) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	v.pageSize = size
	v.page = 0
}

// SetPage moves to page, clamped to [0, PageCount-1].
func (v *View) SetPage(page int) {
	if last := v.PageCount() - 1; page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	v.page = page
}

// Query returns the active filters.
func (v *View) Query() Query { return v.query }

// PageIndex returns the current 0-based page.
func (v *View) PageIndex() int { return v.page }

// PageSize returns the current page size.
func (v *View) PageSize() int { return v.pageSize }

// Results returns every document matching the filters.
func (v *View) Results() []domain.Document { return Filter(v.docs, v.query) }

// Total is the number of matching documents.
func (v *View) Total() int { return len(v.Results()) }

// PageCount is the number of pages over the matching documents.
func (v *View) PageCount() int { return PageCount(v.Total(), v.pageSize) }

// Page returns the current page of matching documents.
func (v *View) Page() []domain.Document { return Paginate(v.Results(), v.page, v.pageSize) }

// Facets are computed over the unfiltered collection.
func (v *View) Facets() Facets { return BuildFacets(v.docs) }

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
