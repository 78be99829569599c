package domain

import (
	"strings"
	"time"
)

// DocumentStatus enumerates publication states for documents.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "Draft"
	DocumentStatusPublished DocumentStatus = "Published"
)

// Valid reports whether the status is a known value.
func (s DocumentStatus) Valid() bool {
	return s == DocumentStatusDraft || s == DocumentStatusPublished
}

// Document is a team-owned text document.
type Document struct {
	ID          string
	Title       string
	Content     string
	TeamID      string
	AuthorID    string
	AuthorName  string
	Tags        []string
	Status      DocumentStatus
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	PublishedAt *time.Time
}

// IsPublished reports whether the document reached its terminal status.
func (d *Document) IsPublished() bool {
	return d != nil && d.Status == DocumentStatusPublished
}

// Clone returns a deep copy so callers can hand out snapshots.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Tags = append([]string(nil), d.Tags...)
	if d.UpdatedAt != nil {
		t := *d.UpdatedAt
		cp.UpdatedAt = &t
	}
	if d.PublishedAt != nil {
		t := *d.PublishedAt
		cp.PublishedAt = &t
	}
	return &cp
}

// Publish moves a draft to Published. It reports false when the document was already published.
func (d *Document) Publish(at time.Time) bool {
	if d.IsPublished() {
		return false
	}
	d.Status = DocumentStatusPublished
	d.PublishedAt = &at
	return true
}

// NormalizeTags trims tags, drops empty entries and keeps the first occurrence of duplicates.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
