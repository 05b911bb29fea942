package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logagrip/internal/app"
	"logagrip/internal/domain"
)

const (
	createdAtWidth = 20
	sizeWidth      = 11
	createdLayout  = "2006-01-02 15:04:05"
)

// GroupsHeader holds the column titles of the log group table
var GroupsHeader = []string{"Name", "Created at( Local)", "Stored Size"}

// GroupRenderer handles rendering of the log group table
type GroupRenderer struct {
	styles *Styles
}

// NewGroupRenderer creates a new group renderer
func NewGroupRenderer(styles *Styles) *GroupRenderer {
	return &GroupRenderer{
		styles: styles,
	}
}

// FormatGroup returns the cells of one table row
func FormatGroup(g domain.LogGroup) []string {
	size := "-"
	if h, err := g.Stored.HumanReadable(); err == nil {
		size = fmt.Sprintf("%4d %s", h.Size, h.Unit.ShortName())
	}
	return []string{
		g.Name,
		g.CreationTime.Local().Format(createdLayout),
		size,
	}
}

// RenderGroups renders the log group table as a titled box
func (g *GroupRenderer) RenderGroups(view app.GroupsView, state blockState, width, height int) string {
	inner := innerWidth(width)
	nameWidth := max(inner-createdAtWidth-sizeWidth-2, 4)
	rows := visibleRows(height) - 1

	lines := []string{g.styles.TableHeader.Render(formatRow(GroupsHeader, nameWidth))}
	start := scrollOffset(view.Selected, len(view.Rows), rows)
	for i := start; i < len(view.Rows) && len(lines) <= rows; i++ {
		line := formatRow(FormatGroup(view.Rows[i]), nameWidth)
		if i == view.Selected {
			line = g.styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	return renderBlock(g.styles, g.title(view), strings.Join(lines, "\n"), state, width, height)
}

func (g *GroupRenderer) title(view app.GroupsView) string {
	parts := []string{view.Label}
	if view.Profile != "" {
		parts = append(parts, fmt.Sprintf("[%s]", view.Profile))
	}
	parts = append(parts, fmt.Sprintf("by %s", view.Order))
	if view.Loading {
		parts = append(parts, "loading…")
	} else if view.Exhausted {
		parts = append(parts, "(last page)")
	}
	return strings.Join(parts, " ")
}

func formatRow(cells []string, nameWidth int) string {
	return fmt.Sprintf("%-*s %-*s %*s",
		nameWidth, truncate(cells[0], nameWidth),
		createdAtWidth, cells[1],
		sizeWidth, cells[2])
}

// highlightMatch highlights the first case-sensitive match of query in text
func highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	if query == "" {
		return normalStyle.Render(text)
	}
	index := strings.Index(text, query)
	if index == -1 {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}
