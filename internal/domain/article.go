package domain

import (
	"strings"
	"time"
)

// Article is a normalized news record fetched from one of the providers.
type Article struct {
	ID          string
	Title       string
	Description string
	URL         string
	SourceName  string
	PublishedAt time.Time
	ImageURL    string
}

// Valid reports whether the record carries the required fields.
// Providers drop invalid records instead of failing the whole fetch.
func (a Article) Valid() bool {
	return strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.SourceName) != ""
}
