package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// keyMap is the short binding list shown in the footer
type keyMap struct {
	Quit     key.Binding
	Move     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Search   key.Binding
	NextPage key.Binding
	Refresh  key.Binding
	Sort     key.Binding
	Help     key.Binding
}

func newKeyMap(quitKey string) keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys(quitKey), key.WithHelp(quitKey, "quit")),
		Move:     key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "move")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextPage: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Enter, k.Back, k.Search, k.NextPage, k.Sort, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Enter, k.Back},
		{k.Search, k.NextPage, k.Refresh, k.Sort},
		{k.Help, k.Quit},
	}
}

// HelpContent renders the help page shown in the pager
func HelpContent(quitKey string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	line := func(k, desc string) string {
		return fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", k)), descStyle.Render(desc))
	}

	var help strings.Builder

	help.WriteString(titleStyle.Render("logagrip Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Navigation"))
	help.WriteString("\n")
	help.WriteString(line("↑/↓, k/j", "Move the focus or the cursor up/down"))
	help.WriteString(line("Enter", "Focus the selected block, or open the item under the cursor"))
	help.WriteString(line("Esc", "Leave the focused block"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Log Groups"))
	help.WriteString("\n")
	help.WriteString(line("Enter", "On a preset or profile: list log groups"))
	help.WriteString(line("n", "Load the next page of log groups"))
	help.WriteString(line("r", "Reload the current page of log groups"))
	help.WriteString(line("s", "Cycle the log group order"))
	help.WriteString(line("s", "On presets: toggle name and config order"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	help.WriteString(line("/", "Edit the search query"))
	help.WriteString(line("Enter", "Apply the query to the selected block"))
	help.WriteString(line("Esc", "Stop editing without searching"))
	help.WriteString("\n")

	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  A query on the groups block lists groups whose name starts with it"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(line("?", "Show this help"))
	help.WriteString(strings.TrimSuffix(line(quitKey, "Quit"), "\n"))

	return help.String()
}

// HelpPager shows the help page in ov while the TUI has released the terminal
type HelpPager struct {
	program *tea.Program
}

// NewHelpPager creates a pager bound to program
func NewHelpPager(program *tea.Program) *HelpPager {
	return &HelpPager{program: program}
}

// Show blocks until the pager exits
func (h *HelpPager) Show(content string) error {
	if h == nil || h.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// let ov finish with the terminal first
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showHelpCmd runs the pager off the update loop
func (h *HelpPager) showHelpCmd(content string) tea.Cmd {
	return func() tea.Msg {
		return helpPagerMsg{err: h.Show(content)}
	}
}
