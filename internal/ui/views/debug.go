package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logagrip/internal/app"
)

// DebugRenderer renders the debug pane: recent diagnostics beside recent keys
type DebugRenderer struct {
	styles *Styles
}

// NewDebugRenderer creates a new debug renderer
func NewDebugRenderer(styles *Styles) *DebugRenderer {
	return &DebugRenderer{
		styles: styles,
	}
}

// FormatLog formats one diagnostic line with its local wall-clock time
func FormatLog(l app.DebugLog) string {
	return fmt.Sprintf("%s %s", l.At.Local().Format("15:04:05"), l.Msg)
}

// FormatKey formats one numbered key press
func FormatKey(k app.DebugKey) string {
	return fmt.Sprintf("(%4d) %s", k.No, k.Key)
}

// RenderDebug renders both halves of the pane, 70/30
func (d *DebugRenderer) RenderDebug(view *app.DebugView, width, height int) string {
	logsWidth := width * 7 / 10
	keysWidth := width - logsWidth

	logs := make([]string, len(view.Logs))
	for i, l := range view.Logs {
		logs[i] = FormatLog(l)
	}
	keys := make([]string, len(view.Keys))
	for i, k := range view.Keys {
		keys[i] = FormatKey(k)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderColumn("Messages", logs, logsWidth, height),
		d.renderColumn("Keys", keys, keysWidth, height),
	)
}

func (d *DebugRenderer) renderColumn(title string, lines []string, width, height int) string {
	rows := visibleRows(height)
	if len(lines) > rows {
		lines = lines[:rows]
	}
	inner := innerWidth(width)
	for i, l := range lines {
		lines[i] = d.styles.Dim.Render(truncate(l, inner))
	}
	return renderBlock(d.styles, title, strings.Join(lines, "\n"), blockIdle, width, height)
}
