// Package lcd emulates the board's text zone in the terminal.
package lcd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/keyzone/internal/display"
	"github.com/zjrosen/keyzone/internal/input"
	"github.com/zjrosen/keyzone/internal/keys"
	"github.com/zjrosen/keyzone/internal/log"
	"github.com/zjrosen/keyzone/internal/pubsub"
	"github.com/zjrosen/keyzone/internal/session"
)

const defaultLogLines = 8

// Options configures the emulator.
type Options struct {
	Session session.Options

	// BorderColor frames the text zone. Empty uses the terminal default.
	BorderColor display.Color

	// ShowLog opens the debug log pane at startup.
	ShowLog bool

	// LogLines is how many log entries the pane keeps.
	LogLines int
}

// Model is the Bubble Tea model for the emulator.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	session *session.Session
	keys    keys.KeyMap
	help    help.Model

	ops  *pubsub.ContinuousListener[display.Op]
	logs *log.LogListener

	glyphs *glyphCache

	borderColor display.Color
	lastOp      string
	typed       int
	showLog     bool
	logLines    []string
	logLimit    int
	width       int
	height      int
}

// New builds the emulator with its own session. The session's display ops
// are published on a broker the model listens to.
func New(opts Options) (Model, error) {
	ctx, cancel := context.WithCancel(context.Background())

	broker := opts.Session.Broker
	if broker == nil {
		broker = pubsub.NewBroker[display.Op]()
	}
	// Subscribe before the session initializes so the init ops are seen.
	ops := pubsub.NewContinuousListener(ctx, broker)

	sessOpts := opts.Session
	sessOpts.Broker = broker
	s, err := session.New(sessOpts)
	if err != nil {
		cancel()
		return Model{}, fmt.Errorf("creating session: %w", err)
	}

	limit := opts.LogLines
	if limit <= 0 {
		limit = defaultLogLines
	}

	log.Info(log.CatUI, "emulator started", "session", s.ID())

	return Model{
		ctx:         ctx,
		cancel:      cancel,
		session:     s,
		keys:        keys.DefaultKeyMap(),
		help:        help.New(),
		ops:         ops,
		logs:        log.NewListener(ctx),
		glyphs:      newGlyphCache(),
		borderColor: opts.BorderColor,
		showLog:     opts.ShowLog,
		logLimit:    limit,
	}, nil
}

// Init starts listening for display ops and log entries.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.ops.Listen()}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Update handles key presses and published events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pubsub.Event[display.Op]:
		m.lastOp = msg.Payload.String()
		return m, m.ops.Listen()

	case log.LogEvent:
		m.logLines = append(m.logLines, msg.Payload)
		if len(m.logLines) > m.logLimit {
			m.logLines = m.logLines[len(m.logLines)-m.logLimit:]
		}
		if m.logs == nil {
			return m, nil
		}
		return m, m.logs.Listen()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reset):
		log.Debug(log.CatUI, "screen reset")
		m.session.Manager().Init()
		return m, nil
	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		return m, nil
	}

	code, ok := input.Decode(msg, m.session.Manager().Config().Keys)
	if !ok {
		log.Debug(log.CatInput, "key ignored", "key", msg.String())
		return m, nil
	}
	m.session.Manager().Process(code)
	m.typed++
	return m, nil
}

// Session returns the session the emulator drives.
func (m Model) Session() *session.Session {
	return m.session
}

// Close stops the listeners. It is safe to call more than once.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}
