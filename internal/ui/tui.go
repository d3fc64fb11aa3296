// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program as a non-blocking frame Renderer
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Control lets the UI ask the game loop to stop
type Control struct {
	quit chan struct{}
	once sync.Once
}

// NewControl creates a new quit handler
func NewControl() *Control {
	return &Control{quit: make(chan struct{})}
}

// RequestQuit signals a quit. Safe to call more than once and on nil.
func (c *Control) RequestQuit() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.quit) })
}

// Quit is closed once a quit was requested
func (c *Control) Quit() <-chan struct{} {
	return c.quit
}

// Program renders frames through a bubbletea program
type Program struct {
	program  *tea.Program
	control  *Control
	updates  chan Frame
	done     chan struct{}
	stopOnce sync.Once
}

// NewProgram creates the TUI. Call Run to take over the terminal.
func NewProgram(control *Control, opts ...tea.ProgramOption) *Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := &Program{
		program: tea.NewProgram(NewModel(control), opts...),
		control: control,
		updates: make(chan Frame, 1),
		done:    make(chan struct{}),
	}
	go p.forward()
	return p
}

func (p *Program) forward() {
	for {
		select {
		case <-p.done:
			return
		case f := <-p.updates:
			p.program.Send(FrameMsg(f))
		}
	}
}

// Run blocks until the user quits or Stop is called
func (p *Program) Run() error {
	_, err := p.program.Run()
	p.control.RequestQuit()
	return err
}

// Render queues a frame, replacing one the UI has not drawn yet
func (p *Program) Render(f Frame) {
	select {
	case p.updates <- f:
		return
	default:
	}
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- f:
	default:
	}
}

// Stop stops the TUI
func (p *Program) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.program.Quit()
	})
}
