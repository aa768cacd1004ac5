package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/blogi/site-search/internal/loader"
	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/session"
	"github.com/spf13/cobra"
)

const replPrompt = "search> "

// NewReplCmd creates the 'repl' command, an interactive search prompt.
func NewReplCmd() *cobra.Command {
	var (
		idx   indexFlags
		query string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Search interactively from the terminal",
		Long: `Load the index once and read queries line by line.

Each line is submitted as a query. Queries shorter than two characters are
ignored. Type :q or exit to leave.`,
		Example: `  site-search repl
  site-search repl --query kitchen
  site-search repl --index ./_site/search.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, &idx, query, plain)
		},
	}

	idx.register(cmd)
	cmd.Flags().StringVarP(&query, "query", "q", "", "Initial query, searched once the index loads")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors and styling")

	return cmd
}

func runRepl(cmd *cobra.Command, idx *indexFlags, query string, plain bool) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg, false)

	ctx := cmdContext(cmd)
	l := loader.New(cfg.Timeout())

	loc, err := idx.location(ctx, l, cfg)
	if err != nil {
		return err
	}

	h := openHistory(cfg)
	defer h.Close()

	s := newSession(l, cfg, h.tracker)
	defer s.Close()

	start := "search"
	if query != "" {
		start += "?q=" + url.QueryEscape(query)
	}
	addr, err := session.NewHistoryAddress(start)
	if err != nil {
		return fmt.Errorf("invalid initial query: %w", err)
	}

	out := cmd.OutOrStdout()
	term := newLineTerminal(out, newRenderer(out, plain))
	ctrl := session.NewController(s, session.UI{
		Events:  term,
		Display: term,
		Address: addr,
		Input:   term,
	})
	ctrl.Setup()
	defer ctrl.Teardown()

	fmt.Fprintln(out, render.LoadingMessage)
	if err := ctrl.Start(ctx, loc); err != nil {
		return err
	}
	slog.Debug("index loaded", "location", loc, "documents", len(s.Index()))

	return term.Run(cmd.InOrStdin())
}

// lineTerminal is a line-oriented UI. Every line read is a submit event.
type lineTerminal struct {
	out      io.Writer
	renderer render.Renderer

	mu       sync.Mutex
	nextID   int
	onInput  map[int]func(string)
	onSubmit map[int]func(string)
}

func newLineTerminal(out io.Writer, r render.Renderer) *lineTerminal {
	return &lineTerminal{
		out:      out,
		renderer: r,
		onInput:  make(map[int]func(string)),
		onSubmit: make(map[int]func(string)),
	}
}

func (t *lineTerminal) OnInput(handler func(string)) func() {
	return t.subscribe(t.onInput, handler)
}

func (t *lineTerminal) OnSubmit(handler func(string)) func() {
	return t.subscribe(t.onSubmit, handler)
}

func (t *lineTerminal) subscribe(handlers map[int]func(string), handler func(string)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	handlers[id] = handler

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(handlers, id)
	}
}

func (t *lineTerminal) submit(value string) {
	t.mu.Lock()
	handlers := make([]func(string), 0, len(t.onSubmit))
	for _, h := range t.onSubmit {
		handlers = append(handlers, h)
	}
	t.mu.Unlock()

	for _, h := range handlers {
		h(value)
	}
}

// Show renders v followed by a blank line.
func (t *lineTerminal) Show(v render.View) {
	if err := t.renderer.Render(t.out, v); err != nil {
		slog.Warn("failed to render view", "error", err)
		return
	}
	fmt.Fprintln(t.out)
}

// SetValue echoes a value placed in the prompt by the controller.
func (t *lineTerminal) SetValue(value string) {
	fmt.Fprintf(t.out, "%s%s\n", replPrompt, value)
}

// Focus re-prompts after an ignored query.
func (t *lineTerminal) Focus() {
	fmt.Fprintln(t.out, render.PromptMessage)
}

// Run reads queries from in until EOF or a quit command.
func (t *lineTerminal) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(t.out, replPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(t.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case ":q", ":quit", "exit", "quit":
			return nil
		}
		t.submit(line)
	}
}
