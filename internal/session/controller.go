package session

import (
	"context"
	"strings"
	"sync"

	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/search"
)

// EventSource delivers query events from the UI. Each subscription returns a
// function that removes it.
type EventSource interface {
	OnInput(handler func(value string)) (unsubscribe func())
	OnSubmit(handler func(value string)) (unsubscribe func())
}

// Display shows a view in the results container.
type Display interface {
	Show(v render.View)
}

// Address is the page address holding the q parameter.
type Address interface {
	Query() string
	// SetQuery records q in the address without navigating.
	SetQuery(q string)
}

// Input is the query control.
type Input interface {
	SetValue(value string)
	Focus()
}

// UI groups the boundaries a Controller drives. Any of them may be nil.
type UI struct {
	Events  EventSource
	Display Display
	Address Address
	Input   Input
}

// Controller connects a Session to a UI.
type Controller struct {
	session *Session
	ui      UI

	mu     sync.Mutex
	unsubs []func()
}

// NewController creates a controller. Call Setup to start receiving events.
func NewController(s *Session, ui UI) *Controller {
	return &Controller{session: s, ui: ui}
}

// Setup subscribes to input and submit events. Calling it twice is a no-op.
func (c *Controller) Setup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsubs != nil || c.ui.Events == nil {
		return
	}

	c.unsubs = []func(){
		c.ui.Events.OnInput(c.HandleInput),
		c.ui.Events.OnSubmit(c.HandleSubmit),
	}
}

// Teardown removes every subscription made by Setup.
func (c *Controller) Teardown() {
	c.mu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	for _, unsub := range unsubs {
		if unsub != nil {
			unsub()
		}
	}
}

// Start loads the index. On success a q parameter in the address pre-fills
// the input and is searched; on failure the error view is shown.
func (c *Controller) Start(ctx context.Context, location string) error {
	if err := c.session.Load(ctx, location); err != nil {
		c.show(render.ErrorView(""))
		return err
	}

	if c.ui.Address == nil {
		return nil
	}

	q := c.ui.Address.Query()
	if q == "" {
		return nil
	}

	if c.ui.Input != nil {
		c.ui.Input.SetValue(q)
	}
	c.show(c.session.Query(q))

	return nil
}

// HandleSubmit searches for a valid query and records it in the address.
// Otherwise the input is focused and the display left alone.
func (c *Controller) HandleSubmit(value string) {
	q := strings.TrimSpace(value)
	if !search.ValidQuery(q) {
		if c.ui.Input != nil {
			c.ui.Input.Focus()
		}
		return
	}

	c.show(c.session.Query(q))
	if c.ui.Address != nil {
		c.ui.Address.SetQuery(q)
	}
}

// HandleInput searches as the user types. Short queries show the prompt.
func (c *Controller) HandleInput(value string) {
	c.show(c.session.Query(value))
}

func (c *Controller) show(v render.View) {
	if c.ui.Display != nil {
		c.ui.Display.Show(v)
	}
}
