package views

import (
	"strings"

	"logagrip/internal/app"
)

// ListRenderer handles rendering of the preset and profile lists
type ListRenderer struct {
	styles *Styles
}

// NewListRenderer creates a new list renderer
func NewListRenderer(styles *Styles) *ListRenderer {
	return &ListRenderer{
		styles: styles,
	}
}

// RenderList renders list as a titled box of the given outer size. query is
// highlighted in every item.
func (r *ListRenderer) RenderList(list app.ListView, query string, state blockState, width, height int) string {
	inner := innerWidth(width)
	rows := visibleRows(height)

	lines := make([]string, 0, rows)
	start := scrollOffset(list.Selected, len(list.Items), rows)
	for i := start; i < len(list.Items) && len(lines) < rows; i++ {
		text := truncate(list.Items[i], inner)
		if i == list.Selected {
			lines = append(lines, r.styles.Selected.Render(padRight(text, inner)))
			continue
		}
		lines = append(lines, highlightMatch(text, query, r.styles.Highlight, r.styles.Item))
	}
	if len(list.Items) == 0 {
		lines = append(lines, r.styles.Dim.Render("(empty)"))
	}

	return renderBlock(r.styles, list.Label, strings.Join(lines, "\n"), state, width, height)
}

// blockState says how a region's border is drawn
type blockState int

const (
	blockIdle blockState = iota
	blockSelected
	blockFocused
)

func renderBlock(styles *Styles, title, body string, state blockState, width, height int) string {
	style := styles.Block
	switch state {
	case blockSelected:
		style = styles.ActiveBlock
	case blockFocused:
		style = styles.FocusBlock
	}
	content := styles.BlockTitle.Render(truncate(title, innerWidth(width)))
	if body != "" {
		content += "\n" + body
	}
	return style.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(max(height, 3)).
		Render(content)
}

// innerWidth is the text width inside a bordered, padded block
func innerWidth(width int) int {
	return max(width-4, 1)
}

// visibleRows is the number of item rows below the block title
func visibleRows(height int) int {
	return max(height-3, 1)
}

// scrollOffset returns the first row to show so that selected stays visible
func scrollOffset(selected, total, rows int) int {
	if selected < rows || total <= rows {
		return 0
	}
	return min(selected-rows+1, total-rows)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
