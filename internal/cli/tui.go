package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cardpress/cardpress/pkg/store"
	"github.com/cardpress/cardpress/pkg/template"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// templateListModel - Interactive template selection
// =============================================================================

// templateRow caches the display columns parsed from a record.
type templateRow struct {
	rec    store.Record
	layout string
	size   string
	layers string
}

// templateListModel is the bubbletea model for interactive template selection.
type templateListModel struct {
	rows     []templateRow
	cursor   int
	selected *store.Record
	height   int
	offset   int
}

// newTemplateListModel creates a new template list model.
func newTemplateListModel(recs []store.Record) templateListModel {
	rows := make([]templateRow, len(recs))
	for i, rec := range recs {
		row := templateRow{rec: rec, layout: "—", size: "—", layers: "—"}
		if cfg, err := template.ParseConfig(rec.Config); err == nil {
			row.layout = string(cfg.Layout)
			dims := cfg.EffectiveDimensions()
			row.size = fmt.Sprintf("%dx%d", dims.Width, dims.Height)
			row.layers = fmt.Sprintf("%d", len(cfg.Layers))
		}
		rows[i] = row
	}
	return templateListModel{
		rows:   rows,
		height: 15,
	}
}

func (m templateListModel) Init() tea.Cmd {
	return nil
}

func (m templateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			rec := m.rows[m.cursor].rec
			m.selected = &rec
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m templateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Template"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		category := r.rec.Category
		if category == "" {
			category = "—"
		}
		updated := formatRelativeTime(r.rec.UpdatedAt)
		rows = append(rows, []string{cursor, r.rec.Name, r.layout, r.size, r.layers, category, updated})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Layout", "Size", "Layers", "Category", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col >= 5 {
				base = base.Foreground(colorDim)
			}
			if m.offset+row == m.cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
