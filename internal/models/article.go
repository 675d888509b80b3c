package models

import (
	"strings"
	"time"
)

// Article categories as stored in the database. Filtering is exact-match, so
// category values are normalized to these on every write.
const (
	CategoryRegion     = "LA REGION"
	CategoryPolitics   = "POLITICA"
	CategoryOpinion    = "OPINION"
	CategoryScienceTec = "CIENCIA Y TECNOLOGIA"
)

// DefaultAuthor is used when an article is saved with a blank author
const DefaultAuthor = "Equipo Desconocido"

// Categories lists all categories in navigation order
var Categories = []string{
	CategoryRegion,
	CategoryPolitics,
	CategoryOpinion,
	CategoryScienceTec,
}

// ValidCategories defines the closed set of allowed article categories
var ValidCategories = map[string]bool{
	CategoryRegion:     true,
	CategoryPolitics:   true,
	CategoryOpinion:    true,
	CategoryScienceTec: true,
}

// categorySlugs maps URL path segments to stored category values
var categorySlugs = map[string]string{
	"region":             CategoryRegion,
	"politica":           CategoryPolitics,
	"opinion":            CategoryOpinion,
	"ciencia-tecnologia": CategoryScienceTec,
}

// NormalizeCategory uppercases and trims a raw category value and reports
// whether the result is a member of the allowed set.
func NormalizeCategory(raw string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	return normalized, ValidCategories[normalized]
}

// CategoryBySlug resolves a URL slug to a stored category value
func CategoryBySlug(slug string) (string, bool) {
	category, ok := categorySlugs[strings.ToLower(slug)]
	return category, ok
}

// Article represents a news article
type Article struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Category      string    `json:"category" db:"category"`
	Content       string    `json:"content" db:"content"`
	Author        string    `json:"author" db:"author"`
	ImageFilename *string   `json:"image_filename,omitempty" db:"image_filename"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// HasImage reports whether the article references an uploaded asset
func (a *Article) HasImage() bool {
	return a.ImageFilename != nil && *a.ImageFilename != ""
}
