// Package dashboard derives the filtered, paginated document listing shown on the dashboard.
package dashboard

import (
	"strings"

	"github.com/spec-kit/convodocs/internal/domain"
)

// Query selects documents. Nil TeamID or Status means unconstrained.
type Query struct {
	Search string
	TeamID *string
	Status *domain.DocumentStatus
}

// Matches reports whether doc satisfies every predicate of q.
func (q Query) Matches(doc *domain.Document) bool {
	if q.TeamID != nil && doc.TeamID != *q.TeamID {
		return false
	}
	if q.Status != nil && doc.Status != *q.Status {
		return false
	}
	term := strings.ToLower(q.Search)
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Title), term) || strings.Contains(strings.ToLower(doc.AuthorName), term) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Filter returns the documents matching q in their input order. The input is not modified.
func Filter(docs []domain.Document, q Query) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	for i := range docs {
		if q.Matches(&docs[i]) {
			out = append(out, docs[i])
		}
	}
	return out
}

// Paginate returns docs[page*size : page*size+size], clamped to the slice bounds.
// A non-positive size or negative page yields an empty page.
func Paginate(docs []domain.Document, page, size int) []domain.Document {
	if size <= 0 || page < 0 {
		return []domain.Document{}
	}
	start := page * size
	if start >= len(docs) {
		return []domain.Document{}
	}
	end := start + size
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end]
}

// PageCount is the number of pages needed to show total items.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Facets are the filter options offered for a collection.
type Facets struct {
	Teams    []string
	Statuses []domain.DocumentStatus
}

// BuildFacets collects distinct team ids and statuses in first-seen order.
func BuildFacets(docs []domain.Document) Facets {
	f := Facets{Teams: []string{}, Statuses: []domain.DocumentStatus{}}
	seenTeams := map[string]struct{}{}
	seenStatus := map[domain.DocumentStatus]struct{}{}
	for i := range docs {
		if _, ok := seenTeams[docs[i].TeamID]; !ok {
			seenTeams[docs[i].TeamID] = struct{}{}
			f.Teams = append(f.Teams, docs[i].TeamID)
		}
		if _, ok := seenStatus[docs[i].Status]; !ok {
			seenStatus[docs[i].Status] = struct{}{}
			f.Statuses = append(f.Statuses, docs[i].Status)
		}
	}
	return f
}
