package session

import (
	"context"
	"errors"
	"testing"

	"github.com/blogi/site-search/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	input  []func(string)
	submit []func(string)
}

func (e *fakeEvents) OnInput(h func(string)) func() {
	e.input = append(e.input, h)
	i := len(e.input) - 1
	return func() { e.input[i] = nil }
}

func (e *fakeEvents) OnSubmit(h func(string)) func() {
	e.submit = append(e.submit, h)
	i := len(e.submit) - 1
	return func() { e.submit[i] = nil }
}

func (e *fakeEvents) typeText(v string) {
	for _, h := range e.input {
		if h != nil {
			h(v)
		}
	}
}

func (e *fakeEvents) submitForm(v string) {
	for _, h := range e.submit {
		if h != nil {
			h(v)
		}
	}
}

type fakeDisplay struct{ views []render.View }

func (d *fakeDisplay) Show(v render.View) { d.views = append(d.views, v) }

func (d *fakeDisplay) last() render.View {
	if len(d.views) == 0 {
		return render.View{State: -1}
	}
	return d.views[len(d.views)-1]
}

type fakeInput struct {
	value   string
	focused int
}

func (i *fakeInput) SetValue(v string) { i.value = v }
func (i *fakeInput) Focus()            { i.focused++ }

type harness struct {
	events  *fakeEvents
	display *fakeDisplay
	input   *fakeInput
	address *HistoryAddress
	ctrl    *Controller
}

func newHarness(t *testing.T, loader IndexLoader, rawURL string) *harness {
	t.Helper()
	addr, err := NewHistoryAddress(rawURL)
	require.NoError(t, err)

	h := &harness{
		events:  &fakeEvents{},
		display: &fakeDisplay{},
		input:   &fakeInput{},
		address: addr,
	}
	s := New(loader, WithSuggestions(false))
	h.ctrl = NewController(s, UI{Events: h.events, Display: h.display, Address: addr, Input: h.input})
	h.ctrl.Setup()
	return h
}

func TestController_StartWithQueryParam(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/?q=kitchen")

	require.NoError(t, h.ctrl.Start(context.Background(), "search.json"))

	assert.Equal(t, "kitchen", h.input.value)
	assert.Equal(t, render.Results, h.display.last().State)
	assert.Len(t, h.display.last().Items, 2)
}

func TestController_StartShortQueryParam(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/?q=k")

	require.NoError(t, h.ctrl.Start(context.Background(), "search.json"))

	assert.Equal(t, "k", h.input.value)
	assert.Equal(t, render.Prompt, h.display.last().State)
}

func TestController_StartWithoutQueryParam(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/")

	require.NoError(t, h.ctrl.Start(context.Background(), "search.json"))

	assert.Empty(t, h.display.views)
	assert.Empty(t, h.input.value)
}

func TestController_StartFailure(t *testing.T) {
	h := newHarness(t, &stubLoader{err: errors.New("404")}, "https://blog.example.com/search/?q=kitchen")

	err := h.ctrl.Start(context.Background(), "search.json")

	require.Error(t, err)
	assert.Equal(t, render.Error, h.display.last().State)
	assert.Empty(t, h.input.value)

	h.events.typeText("kitchen")
	assert.Equal(t, render.Error, h.display.last().State)
}

func TestController_InputBeforeLoad(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/")

	h.events.typeText("kitchen")

	assert.Equal(t, render.Loading, h.display.last().State)
}

func TestController_LiveInput(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/")
	require.NoError(t, h.ctrl.Start(context.Background(), "search.json"))

	h.events.typeText("garden")
	assert.Equal(t, render.Results, h.display.last().State)

	h.events.typeText("g")
	assert.Equal(t, render.Prompt, h.display.last().State)

	assert.Equal(t, []string{"https://blog.example.com/search/"}, h.address.History())
}

func TestController_Submit(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/")
	require.NoError(t, h.ctrl.Start(context.Background(), "search.json"))

	h.events.submitForm("  garden lighting ")

	assert.Equal(t, render.Results, h.display.last().State)
	assert.Equal(t, "garden lighting", h.address.Query())
	assert.Equal(t, []string{
		"https://blog.example.com/search/",
		"https://blog.example.com/search/?q=garden+lighting",
	}, h.address.History())
}

func TestController_SubmitShortQueryFocusesInput(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/")
	require.NoError(t, h.ctrl.Start(context.Background(), "search.json"))

	h.events.submitForm(" k ")

	assert.Equal(t, 1, h.input.focused)
	assert.Empty(t, h.display.views)
	assert.Len(t, h.address.History(), 1)
}

func TestController_Teardown(t *testing.T) {
	h := newHarness(t, &stubLoader{index: siteIndex()}, "https://blog.example.com/search/")
	require.NoError(t, h.ctrl.Start(context.Background(), "search.json"))

	h.ctrl.Setup()
	h.ctrl.Teardown()

	h.events.typeText("kitchen")
	h.events.submitForm("kitchen")

	assert.Empty(t, h.display.views)
	assert.Equal(t, 0, h.input.focused)
	assert.Len(t, h.events.input, 1)
}
