package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logagrip/internal/app"
)

const (
	headerHeight = 3
	debugHeight  = 10
	minWidth     = 40
	minHeight    = 16
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width       int
	Height      int
	Snapshot    app.Snapshot
	Ready       bool   // false until the first frame arrives
	SearchInput string // the rendered header input
	HelpLine    string
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	listRender    *ListRenderer
	groupRender   *GroupRenderer
	debugRenderer *DebugRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		listRender:    NewListRenderer(styles),
		groupRender:   NewGroupRenderer(styles),
		debugRenderer: NewDebugRenderer(styles),
	}
}

// Styles returns the shared styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := max(state.Width, minWidth)
	height := max(state.Height, minHeight)
	s := state.Snapshot

	title := r.styles.Title.Render("logagrip")
	if !state.Ready {
		return title + "\n" + r.styles.Dim.Render("starting…")
	}

	sections := []string{
		r.renderTitle(title, s, width),
		r.renderHeader(s, state.SearchInput, width),
	}

	bodyHeight := height - 1 - headerHeight - 2
	if s.Debug != nil {
		bodyHeight -= debugHeight
	}
	sections = append(sections, r.renderShell(s, width, max(bodyHeight, 6)))
	if s.Debug != nil {
		sections = append(sections, r.debugRenderer.RenderDebug(s.Debug, width, debugHeight))
	}
	sections = append(sections, r.renderStatus(s, width), r.styles.Help.Render(state.HelpLine))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (r *Renderer) renderTitle(title string, s app.Snapshot, width int) string {
	right := r.styles.Dim.Render(fmt.Sprintf("focus: %s  quit: %s", s.Focus, s.QuitKey))
	gap := width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + right
}

func (r *Renderer) renderHeader(s app.Snapshot, input string, width int) string {
	style := r.styles.Block
	if s.Focus == app.FocusHeader {
		style = r.styles.FocusBlock
	}
	if input == "" {
		input = s.Search.Text
	}
	return style.Width(max(width-2, 1)).Render(r.styles.BlockTitle.Render("Search ") + input)
}

func (r *Renderer) renderShell(s app.Snapshot, width, height int) string {
	leftWidth := max(width/3, 20)
	rightWidth := max(width-leftWidth, 20)
	presetsHeight := height / 2
	profilesHeight := height - presetsHeight

	left := lipgloss.JoinVertical(lipgloss.Left,
		r.listRender.RenderList(s.Presets, s.Presets.Query, regionState(s, app.RegionPresets), leftWidth, presetsHeight),
		r.listRender.RenderList(s.Profiles, s.Profiles.Query, regionState(s, app.RegionProfiles), leftWidth, profilesHeight),
	)
	right := r.groupRender.RenderGroups(s.Groups, regionState(s, app.RegionGroups), rightWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (r *Renderer) renderStatus(s app.Snapshot, width int) string {
	if s.Status == "" {
		return ""
	}
	style := r.styles.Status
	if strings.HasPrefix(s.Status, "failed") {
		style = r.styles.StatusError
	}
	return style.Render(truncate(s.Status, width))
}

func regionState(s app.Snapshot, region app.Region) blockState {
	if s.Selection != region {
		return blockIdle
	}
	if s.Focused {
		return blockFocused
	}
	return blockSelected
}
