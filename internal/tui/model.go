// Package tui renders the assistant as a single-screen terminal UI.
package tui

import (
	"context"
	"errors"
	"strings"

	"orderbot/internal/assistant"
	"orderbot/internal/catalog"
	"orderbot/internal/chat"
	"orderbot/internal/i18n"
	"orderbot/internal/metrics"
	"orderbot/internal/recommend"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type focus int

const (
	focusChat focus = iota
	focusMenu
)

const langCommand = "/lang"

// CatalogLoader loads the menu once at startup
type CatalogLoader interface {
	Load(ctx context.Context) catalog.Result
}

// Options configures the UI model
type Options struct {
	Assistant *assistant.Assistant
	Catalog   CatalogLoader
	Logger    *zap.Logger
	Metrics   *metrics.Collector
}

// Model defines the application state
type Model struct {
	ctx       context.Context
	assistant *assistant.Assistant
	catalog   CatalogLoader
	logger    *zap.Logger
	metrics   *metrics.Collector

	input   textinput.Model
	spinner spinner.Model
	menu    list.Model
	cart    table.Model

	focus          focus
	pending        *assistant.PendingSend
	loadingCatalog bool
	status         string
	width          int
	height         int
}

type catalogMsg struct {
	result catalog.Result
}

type replyMsg struct {
	pending *assistant.PendingSend
	result  chat.Result
}

// New creates the UI model
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 50

	menu := list.New([]list.Item{}, list.NewDefaultDelegate(), 60, 20)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.SetShowStatusBar(false)

	cart := table.New(table.WithHeight(6))

	m := Model{
		ctx:            ctx,
		assistant:      opts.Assistant,
		catalog:        opts.Catalog,
		logger:         logger,
		metrics:        opts.Metrics,
		input:          ti,
		spinner:        s,
		menu:           menu,
		cart:           cart,
		focus:          focusChat,
		loadingCatalog: opts.Catalog != nil,
	}
	m.applyLabels()
	m.refreshMenu()
	m.refreshCart()
	return m
}

// Init starts the catalog load
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.catalog != nil {
		cmds = append(cmds, m.spinner.Tick, loadCatalog(m.ctx, m.catalog))
	}
	return tea.Batch(cmds...)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case catalogMsg:
		m.loadingCatalog = false
		m.metrics.SetCatalog(len(msg.result.Items), len(msg.result.Rejected))
		if err := m.assistant.LoadCatalog(msg.result.Items); err != nil {
			m.logger.Warn("catalog ignored", zap.Error(err))
		}
		return m, nil

	case replyMsg:
		if err := m.assistant.Complete(msg.pending, msg.result); err != nil {
			m.logger.Warn("reply ignored", zap.Error(err))
		}
		m.pending = nil
		m.status = ""
		m.refreshMenu()
		return m, nil

	case spinner.TickMsg:
		if m.pending == nil && !m.loadingCatalog {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.assistant.Cart().SummaryOpen {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "ctrl+l":
			m.assistant.CycleLocale()
			m.applyLabels()
			return m, nil
		case "tab":
			return m.toggleFocus(), nil
		}
		if m.focus == focusMenu {
			return m.updateMenu(msg)
		}
		if msg.String() == "enter" {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == focusChat {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.menu, cmd = m.menu.Update(msg)
	}
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.focus == focusChat {
		m.focus = focusMenu
		m.input.Blur()
		m.cart.Focus()
	} else {
		m.focus = focusChat
		m.input.Focus()
		m.cart.Blur()
	}
	return m
}

// submit sends the input line, or runs it as a slash command
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	if fields := strings.Fields(text); len(fields) > 0 && fields[0] == langCommand {
		if len(fields) > 1 {
			m.assistant.SetLocale(i18n.Locale(fields[1]))
			m.applyLabels()
		}
		m.input.Reset()
		return m, nil
	}

	p, err := m.assistant.BeginSend(text)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, assistant.ErrSendPending):
		m.status = m.assistant.T(i18n.KeyWaitForReply)
		return m, nil
	case err != nil:
		m.logger.Error("send failed", zap.Error(err))
		return m, nil
	}

	m.input.Reset()
	m.pending = p
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, deliver(m.ctx, m.assistant, p))
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()

	switch msg.String() {
	case "+", "=":
		if ok {
			if _, err := m.assistant.Increment(id); err != nil {
				m.logger.Debug("increment", zap.String("id", id), zap.Error(err))
			}
			m.refreshMenu()
		}
		return m, nil
	case "-", "_":
		if ok {
			if _, err := m.assistant.Decrement(id); err != nil {
				m.logger.Debug("decrement", zap.String("id", id), zap.Error(err))
			}
			m.refreshMenu()
		}
		return m, nil
	case "a", "enter":
		if ok {
			_, err := m.assistant.AddToOrder(id)
			if err != nil && !errors.Is(err, recommend.ErrZeroQuantity) {
				m.logger.Warn("add to order failed", zap.String("id", id), zap.Error(err))
			}
			m.refreshMenu()
			m.refreshCart()
		}
		return m, nil
	case "o":
		if err := m.assistant.RequestConfirmation(); err != nil {
			m.logger.Debug("confirmation not opened", zap.Error(err))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if _, err := m.assistant.ConfirmOrder(); err != nil {
			m.logger.Error("confirm order failed", zap.Error(err))
		}
		m.refreshCart()
	case "n", "esc":
		m.assistant.CancelConfirmation()
	}
	return m, nil
}

func (m Model) selectedID() (string, bool) {
	entry, ok := m.menu.SelectedItem().(menuEntry)
	if !ok {
		return "", false
	}
	return entry.row.Item.ID, true
}

// refreshMenu rebuilds the recommendation list keeping the cursor
func (m *Model) refreshMenu() {
	rows := m.assistant.Recommendations()
	items := make([]list.Item, len(rows))
	for i, row := range rows {
		items[i] = newMenuEntry(row, m.assistant.T)
	}
	index := m.menu.Index()
	m.menu.SetItems(items)
	if index < len(items) {
		m.menu.Select(index)
	}
}

// refreshCart rebuilds the cart table
func (m *Model) refreshCart() {
	m.cart.SetRows(cartRows(m.assistant.Cart().Lines))
}

// applyLabels pushes the current locale into the widgets
func (m *Model) applyLabels() {
	t := m.assistant.T
	m.input.Placeholder = t(i18n.KeyTypePlaceholder)
	m.menu.Title = t(i18n.KeyRecommendedMenu)
	m.cart.SetColumns(cartColumns(t))
	m.refreshMenu()
}

func (m *Model) resize() {
	w, h := docStyle.GetFrameSize()
	width := m.width - w
	if width < 40 {
		width = 40
	}
	m.input.Width = width/2 - 6
	m.menu.SetSize(width/2-4, (m.height-h)/2)
}

func loadCatalog(ctx context.Context, loader CatalogLoader) tea.Cmd {
	return func() tea.Msg {
		return catalogMsg{result: loader.Load(ctx)}
	}
}

func deliver(ctx context.Context, a *assistant.Assistant, p *assistant.PendingSend) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{pending: p, result: a.Deliver(ctx, p)}
	}
}
