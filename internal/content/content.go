// Package content holds the manifesto page data: experiences, questions,
// skills and socials. It is static configuration loaded from YAML.
package content

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

type Links struct {
	GitHub string `yaml:"github" json:"github,omitempty"`
	Live   string `yaml:"live" json:"live,omitempty"`
}

// Experience is one entry of the timeline and the data behind its popup.
type Experience struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Title       string   `yaml:"title" json:"title"`
	Date        string   `yaml:"date" json:"date"`
	Company     string   `yaml:"company" json:"company"`
	Description string   `yaml:"description" json:"description"`
	Icon        string   `yaml:"icon" json:"icon"`
	Color       string   `yaml:"color" json:"color"`
	BgColor     string   `yaml:"bg_color" json:"bg_color"`
	Stats       string   `yaml:"stats" json:"stats"`
	Images      []string `yaml:"images" json:"images"`
	Tags        []string `yaml:"tags" json:"tags"`
	Details     string   `yaml:"details" json:"details,omitempty"`
	Skills      []string `yaml:"skills" json:"skills,omitempty"`
	Highlights  []string `yaml:"highlights" json:"highlights,omitempty"`
	Links       Links    `yaml:"links" json:"links"`

	DetailsHTML template.HTML `yaml:"-" json:"-"`
}

// Question is a card of the questions grid and its details popup.
type Question struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Title       string   `yaml:"title" json:"title"`
	Content     string   `yaml:"content" json:"content"`
	Stats       string   `yaml:"stats" json:"stats"`
	Emoji       string   `yaml:"emoji" json:"emoji"`
	Details     string   `yaml:"details" json:"details"`
	Images      []string `yaml:"images" json:"images"`
	StatsColor  string   `yaml:"stats_color" json:"stats_color"`
	Experienced string   `yaml:"experienced" json:"experienced"`

	DetailsHTML template.HTML `yaml:"-" json:"-"`
}

// Theme is the color treatment of a popup header.
func (q Question) Theme() Theme { return ThemeFor(q.StatsColor) }

type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Level    int    `yaml:"level" json:"level"`
}

type Social struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	Icon string `yaml:"icon" json:"icon"`
}

// Site is everything the landing page renders.
type Site struct {
	Candidate    string       `yaml:"candidate" json:"candidate"`
	Position     string       `yaml:"position" json:"position"`
	Organization string       `yaml:"organization" json:"organization"`
	Tagline      string       `yaml:"tagline" json:"tagline"`
	About        string       `yaml:"about" json:"about"`
	Email        string       `yaml:"email" json:"email"`
	Experiences  []Experience `yaml:"experiences" json:"experiences"`
	Questions    []Question   `yaml:"questions" json:"questions"`
	Skills       []Skill      `yaml:"skills" json:"skills"`
	Socials      []Social     `yaml:"socials" json:"socials"`
}

// Experience returns the experience with slug.
func (s *Site) Experience(slug string) (*Experience, bool) {
	for i := range s.Experiences {
		if s.Experiences[i].Slug == slug {
			return &s.Experiences[i], true
		}
	}
	return nil, false
}

// Question returns the question with slug.
func (s *Site) Question(slug string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].Slug == slug {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// Images returns the gallery of whichever item owns slug.
func (s *Site) Images(slug string) ([]string, bool) {
	if e, ok := s.Experience(slug); ok {
		return e.Images, true
	}
	if q, ok := s.Question(slug); ok {
		return q.Images, true
	}
	return nil, false
}

// SkillGroups buckets skills by category, keeping first-seen order.
func (s *Site) SkillGroups() []SkillGroup {
	var groups []SkillGroup
	idx := map[string]int{}
	for _, sk := range s.Skills {
		i, ok := idx[sk.Category]
		if !ok {
			i = len(groups)
			idx[sk.Category] = i
			groups = append(groups, SkillGroup{Category: sk.Category})
		}
		groups[i].Skills = append(groups[i].Skills, sk)
	}
	return groups
}

type SkillGroup struct {
	Category string
	Skills   []Skill
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL path segment.
func Slugify(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// prepare fills derived fields and rejects duplicate slugs, which would make
// one popup unreachable.
func (s *Site) prepare() error {
	seen := map[string]string{}
	claim := func(kind, slug string) error {
		if slug == "" {
			return fmt.Errorf("%s without title or slug", kind)
		}
		if prev, ok := seen[slug]; ok {
			return fmt.Errorf("duplicate slug %q (%s and %s)", slug, prev, kind)
		}
		seen[slug] = kind
		return nil
	}

	for i := range s.Experiences {
		e := &s.Experiences[i]
		if e.Slug == "" {
			e.Slug = Slugify(e.Title)
		}
		if err := claim("experience", e.Slug); err != nil {
			return err
		}
		html, err := RenderMarkdown(e.Details)
		if err != nil {
			return fmt.Errorf("experience %s: %w", e.Slug, err)
		}
		e.DetailsHTML = html
	}
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.Slug == "" {
			q.Slug = Slugify(q.Title)
		}
		if err := claim("question", q.Slug); err != nil {
			return err
		}
		html, err := RenderMarkdown(q.Details)
		if err != nil {
			return fmt.Errorf("question %s: %w", q.Slug, err)
		}
		q.DetailsHTML = html
	}
	return nil
}
