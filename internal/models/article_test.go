package models

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "already normalized", raw: "POLITICA", want: "POLITICA", wantOK: true},
		{name: "lowercase", raw: "politica", want: "POLITICA", wantOK: true},
		{name: "surrounding whitespace", raw: "  la region ", want: "LA REGION", wantOK: true},
		{name: "unknown category", raw: "DEPORTES", want: "DEPORTES", wantOK: false},
		{name: "empty", raw: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeCategory(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeCategory(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCategoryBySlug(t *testing.T) {
	tests := []struct {
		slug   string
		want   string
		wantOK bool
	}{
		{slug: "region", want: CategoryRegion, wantOK: true},
		{slug: "politica", want: CategoryPolitics, wantOK: true},
		{slug: "opinion", want: CategoryOpinion, wantOK: true},
		{slug: "ciencia-tecnologia", want: CategoryScienceTec, wantOK: true},
		{slug: "REGION", want: CategoryRegion, wantOK: true},
		{slug: "deportes", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, ok := CategoryBySlug(tt.slug)
			if ok != tt.wantOK {
				t.Fatalf("CategoryBySlug(%q) ok = %v, want %v", tt.slug, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("CategoryBySlug(%q) = %q, want %q", tt.slug, got, tt.want)
			}
		})
	}
}

func TestHasImage(t *testing.T) {
	name := "foto_1a2b3c4d.jpg"
	empty := ""

	if (&Article{}).HasImage() {
		t.Error("article without a filename should not report an image")
	}
	if (&Article{ImageFilename: &empty}).HasImage() {
		t.Error("article with an empty filename should not report an image")
	}
	if !(&Article{ImageFilename: &name}).HasImage() {
		t.Error("article with a filename should report an image")
	}
}
