package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"logagrip/internal/app"
)

// Program runs the Bubble Tea program and serves as the main loop's renderer.
// Every call is a Send, so it is safe from any goroutine.
type Program struct {
	program *tea.Program
	model   *Model
}

var _ app.Renderer = (*Program)(nil)

// NewProgram wires model into a full-screen Bubble Tea program
func NewProgram(model *Model, opts ...tea.ProgramOption) *Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(model, opts...)
	model.pager = NewHelpPager(program)
	return &Program{program: program, model: model}
}

// Render shows snapshot as the next frame
func (p *Program) Render(snapshot app.Snapshot) {
	p.program.Send(frameMsg{snapshot: snapshot})
}

// ShowHelp opens the help pager
func (p *Program) ShowHelp() {
	p.program.Send(helpMsg{})
}

// Quit ends the program
func (p *Program) Quit() {
	p.program.Send(quitMsg{})
}

// Run blocks until the program exits
func (p *Program) Run() error {
	_, err := p.program.Run()
	return err
}
