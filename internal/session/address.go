package session

import (
	"net/url"
	"sync"
)

// HistoryAddress is an in-memory Address. SetQuery pushes a new entry
// instead of replacing the current one.
type HistoryAddress struct {
	mu      sync.Mutex
	current *url.URL
	history []string
}

// NewHistoryAddress parses raw as the starting address.
func NewHistoryAddress(raw string) (*HistoryAddress, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &HistoryAddress{current: u, history: []string{u.String()}}, nil
}

// Query returns the q parameter of the current address.
func (a *HistoryAddress) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.Query().Get("q")
}

// SetQuery sets q and pushes the result onto the history.
func (a *HistoryAddress) SetQuery(q string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := *a.current
	values := next.Query()
	values.Set("q", q)
	next.RawQuery = values.Encode()

	a.current = &next
	a.history = append(a.history, next.String())
}

// String returns the current address.
func (a *HistoryAddress) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.String()
}

// History returns every address visited, oldest first.
func (a *HistoryAddress) History() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.history...)
}
