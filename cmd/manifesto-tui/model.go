package main

import (
	"fmt"
	"strings"

	"github.com/Zachkp/council-manifesto/internal/content"
	"github.com/Zachkp/council-manifesto/internal/gallery"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 2)
	zoomStyle     = boxStyle.BorderForeground(lipgloss.Color("212"))
)

// model lists the experiences and opens a lightbox over the selected one.
// While the lightbox is open it holds the list's scroll lock and receives
// every key through its subscription.
type model struct {
	site     *content.Site
	cursor   int
	list     *gallery.Body
	keys     gallery.Listeners
	lightbox *gallery.Lightbox
	width    int
	quitting bool
}

func newModel(site *content.Site) *model {
	return &model{site: site, list: &gallery.Body{}}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) scrollable() bool {
	return m.list.Overflow() != gallery.OverflowHidden
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m.quit()
		}
		if m.lightbox != nil && m.lightbox.IsOpen() {
			m.keys.Dispatch(key)
			return m, nil
		}
		switch key {
		case "q", "esc":
			return m.quit()
		case "up", "k":
			if m.scrollable() && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.scrollable() && m.cursor < len(m.site.Experiences)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.open()
		}
	}
	return m, nil
}

func (m *model) open() {
	if len(m.site.Experiences) == 0 {
		return
	}
	if m.lightbox != nil {
		m.lightbox.Unmount()
	}
	exp := m.site.Experiences[m.cursor]
	m.lightbox = gallery.NewLightbox(exp.Images, gallery.NewPageLock(m.list), &m.keys)
	m.lightbox.Open(0)
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	if m.lightbox != nil {
		m.lightbox.Unmount()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if m.lightbox != nil && m.lightbox.IsOpen() {
		return m.lightboxView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s for %s", m.site.Candidate, m.site.Position)))
	b.WriteString("\n\n")
	for i, e := range m.site.Experiences {
		line := fmt.Sprintf("%s  %s", e.Title, dimStyle.Render(fmt.Sprintf("%s · %d images", e.Date, len(e.Images))))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · enter open gallery · q quit"))
	return b.String()
}

func (m *model) lightboxView() string {
	st := m.lightbox.State()
	exp := m.site.Experiences[m.cursor]

	var b strings.Builder
	b.WriteString(titleStyle.Render(exp.Title))
	b.WriteString("\n\n")
	if cur := st.Current(); cur != "" {
		b.WriteString(cur)
	} else {
		b.WriteString(dimStyle.Render("No images yet."))
	}
	b.WriteString("\n\n")

	strip := make([]string, len(st.Images))
	for i := range st.Images {
		if i == st.Index {
			strip[i] = selectedStyle.Render("●")
		} else {
			strip[i] = dimStyle.Render("○")
		}
	}
	b.WriteString(strings.Join(strip, " "))
	b.WriteString(fmt.Sprintf("  %d / %d", st.Position(), len(st.Images)))
	if st.Zoomed {
		b.WriteString("  [zoomed]")
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("←/→ navigate · z zoom · esc close"))

	style := boxStyle
	if st.Zoomed {
		style = zoomStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(b.String())
}
