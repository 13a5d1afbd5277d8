package main

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/Zachkp/council-manifesto/internal/content"
	"github.com/Zachkp/council-manifesto/internal/gallery"
	"github.com/Zachkp/council-manifesto/internal/thumbs"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"highlight": content.HighlightGradient,
	"theme":     content.ThemeFor,
	"inc":       func(i int) int { return i + 1 },
	"thumb":     thumbURL,
	"join":      strings.Join,
	"carousel":  func(slug string, images []string) carouselView { return newCarousel(slug, images, 0, "") },
}

// carouselView is the inline image strip on a timeline card. It keeps no
// server state; the index travels in the request.
type carouselView struct {
	Slug  string
	State gallery.State
}

func newCarousel(slug string, images []string, at int, step string) carouselView {
	nav := gallery.NewNavigator(images)
	nav.Open(at)
	switch step {
	case "next":
		nav.Next()
	case "prev":
		nav.Prev()
	}
	return carouselView{Slug: slug, State: nav.State()}
}

// thumbURL maps an /images reference to its thumbnail route.
func thumbURL(ref string, width int) string {
	rel, ok := strings.CutPrefix(ref, "/images/")
	if !ok {
		return ref
	}
	return fmt.Sprintf("/thumbs/%s?w=%d", (&url.URL{Path: rel}).EscapedPath(), thumbs.SnapWidth(width))
}

func loadTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
