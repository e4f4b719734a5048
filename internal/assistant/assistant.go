// Package assistant ties the catalog, the chat session, the recommendation
// view, the cart and the locale together and keeps them consistent.
//
// Every state change happens under one lock so that a reply and its
// recommendations, or a confirmation and the cleared cart, become visible in
// a single step.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"orderbot/internal/cart"
	"orderbot/internal/chat"
	"orderbot/internal/i18n"
	"orderbot/internal/metrics"
	"orderbot/internal/models"
	"orderbot/internal/recommend"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrSendPending   = errors.New("a reply is still pending")
	ErrStaleReply    = errors.New("reply does not belong to the pending send")
	ErrCatalogLoaded = errors.New("catalog is already loaded")
)

// Options configures an Assistant
type Options struct {
	Service    chat.Service
	Translator *i18n.Translator
	Logger     *zap.Logger
	Metrics    *metrics.Collector
}

// Assistant is the order-and-chat interaction flow
type Assistant struct {
	mu sync.Mutex

	service chat.Service
	tr      *i18n.Translator
	logger  *zap.Logger
	metrics *metrics.Collector

	catalog       []models.MenuItem
	index         map[string]*models.MenuItem
	catalogLoaded bool

	transcript *chat.Transcript
	view       *recommend.View
	cart       *cart.Cart
	pending    *PendingSend
}

// PendingSend identifies the one in-flight chat request
type PendingSend struct {
	ID      uuid.UUID
	Request chat.Request
}

// RecommendedItem is a row of the recommendation view
type RecommendedItem struct {
	Item     models.MenuItem
	Quantity int
	CanAdd   bool
}

// CartSnapshot is a read-only copy of the cart
type CartSnapshot struct {
	Lines       []models.OrderLine
	Total       decimal.Decimal
	SummaryOpen bool
}

// New creates an assistant whose transcript opens with the welcome turn
func New(opts Options) *Assistant {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tr := opts.Translator
	if tr == nil {
		tr = i18n.MustNew(i18n.Fallback)
	}

	a := &Assistant{
		service: opts.Service,
		tr:      tr,
		logger:  logger,
		metrics: opts.Metrics,
		index:   make(map[string]*models.MenuItem),
		view:    recommend.NewView(),
		cart:    cart.New(),
	}
	a.transcript = chat.NewTranscript(a.botTurn(tr.T(i18n.KeyWelcomeMessage)))
	return a
}

// LoadCatalog installs the startup catalog. It can be called once.
func (a *Assistant) LoadCatalog(items []models.MenuItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalogLoaded {
		return ErrCatalogLoaded
	}
	a.catalog = make([]models.MenuItem, len(items))
	copy(a.catalog, items)
	for i := range a.catalog {
		a.index[a.catalog[i].ID] = &a.catalog[i]
	}
	a.catalogLoaded = true
	return nil
}

// Catalog returns a copy of the loaded catalog
func (a *Assistant) Catalog() []models.MenuItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	items := make([]models.MenuItem, len(a.catalog))
	copy(items, a.catalog)
	return items
}

// Send runs a full chat exchange synchronously.
func (a *Assistant) Send(ctx context.Context, text string) error {
	p, err := a.BeginSend(text)
	if err != nil {
		return err
	}
	return a.Complete(p, a.Deliver(ctx, p))
}

// BeginSend appends the user turn and marks a reply as pending. Blank text
// returns ErrEmptyMessage and a second send while a reply is pending returns
// ErrSendPending; neither touches the transcript.
func (a *Assistant) BeginSend(text string) (*PendingSend, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending != nil {
		return nil, ErrSendPending
	}

	a.transcript.Append(models.ChatTurn{
		Text:        text,
		Sender:      models.SenderUser,
		DisplayName: a.tr.T(i18n.KeyUserName),
	})

	menu := make([]models.MenuItem, len(a.catalog))
	copy(menu, a.catalog)

	a.pending = &PendingSend{
		ID:      uuid.New(),
		Request: chat.Request{Message: text, Menu: menu},
	}
	return a.pending, nil
}

// Deliver performs the network call for p. It holds no lock.
func (a *Assistant) Deliver(ctx context.Context, p *PendingSend) chat.Result {
	if a.service == nil {
		return chat.Result{Err: errors.New("no chat service configured")}
	}
	return chat.Do(ctx, a.service, p.Request)
}

// Complete applies the outcome of p and clears the pending state. A success
// appends the bot reply and replaces the recommendations together; a failure
// is logged and answered with a localized apology turn.
func (a *Assistant) Complete(p *PendingSend, res chat.Result) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if p == nil || a.pending == nil || a.pending.ID != p.ID {
		return ErrStaleReply
	}
	a.pending = nil
	a.metrics.ObserveChat(res.OK(), res.Elapsed)

	if !res.OK() {
		a.logger.Error("chat request failed",
			zap.String("send_id", p.ID.String()),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(res.Err),
		)
		a.transcript.Append(a.botTurn(a.tr.T(i18n.KeyFailedToRespond)))
		return nil
	}

	recommended := make([]*models.MenuItem, 0, len(res.Reply.RecommendedMenu))
	for _, item := range res.Reply.RecommendedMenu {
		ref, ok := a.index[item.ID]
		if !ok {
			a.logger.Warn("recommended item is not in the catalog", zap.String("id", item.ID))
			continue
		}
		recommended = append(recommended, ref)
	}

	a.transcript.Append(a.botTurn(res.Reply.Response))
	a.view.Set(recommended)

	a.logger.Info("chat reply applied",
		zap.String("send_id", p.ID.String()),
		zap.Int("recommended", len(recommended)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return nil
}

// Pending reports whether a reply is outstanding
func (a *Assistant) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Transcript returns every turn in arrival order
func (a *Assistant) Transcript() []models.ChatTurn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transcript.Turns()
}

// Recommendations returns the current recommendation rows
func (a *Assistant) Recommendations() []RecommendedItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	items := a.view.Items()
	rows := make([]RecommendedItem, len(items))
	for i, item := range items {
		rows[i] = RecommendedItem{
			Item:     *item,
			Quantity: a.view.Quantity(item.ID),
			CanAdd:   a.view.CanAdd(item.ID),
		}
	}
	return rows
}

// Increment raises the quantity selector of a recommended item
func (a *Assistant) Increment(id string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view.Increment(id)
}

// Decrement lowers the quantity selector of a recommended item
func (a *Assistant) Decrement(id string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view.Decrement(id)
}

// AddToOrder moves the selected quantity of id into the cart. With a zero
// selector it returns recommend.ErrZeroQuantity and changes nothing.
func (a *Assistant) AddToOrder(id string) (models.OrderLine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	item, qty, err := a.view.Take(id)
	if err != nil {
		return models.OrderLine{}, err
	}
	line, err := a.cart.Add(item, qty)
	if err != nil {
		return models.OrderLine{}, err
	}
	a.logger.Debug("added to order",
		zap.String("item", item.ID),
		zap.Int("quantity", qty),
		zap.String("total", a.cart.Total().StringFixed(2)),
	)
	return line, nil
}

// Cart returns a snapshot of the cart
func (a *Assistant) Cart() CartSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return CartSnapshot{
		Lines:       a.cart.Lines(),
		Total:       a.cart.Total(),
		SummaryOpen: a.cart.SummaryOpen(),
	}
}

// RequestConfirmation opens the order summary
func (a *Assistant) RequestConfirmation() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cart.RequestConfirmation()
}

// CancelConfirmation closes the order summary without touching the cart
func (a *Assistant) CancelConfirmation() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cart.Cancel()
}

// ConfirmOrder appends the confirmation turn and empties the cart in one step.
func (a *Assistant) ConfirmOrder() (models.Receipt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	receipt, err := a.cart.Confirm()
	if err != nil {
		return models.Receipt{}, err
	}

	a.transcript.Append(a.botTurn(fmt.Sprintf("%s %s. %s",
		a.tr.T(i18n.KeyOrderConfirmed),
		models.FormatAmount(receipt.Total),
		a.tr.T(i18n.KeyOrderArrival),
	)))
	a.metrics.ObserveOrder(receipt.Total)

	a.logger.Info("order confirmed",
		zap.String("order_id", receipt.OrderID.String()),
		zap.Int("lines", len(receipt.Lines)),
		zap.String("total", receipt.Total.StringFixed(2)),
	)
	return receipt, nil
}

// SetLocale switches the display language. Only labels are affected.
func (a *Assistant) SetLocale(code i18n.Locale) {
	a.tr.SetLocale(code)
	a.logger.Debug("locale changed", zap.String("locale", string(code)))
}

// CycleLocale switches to the next supported language and returns it
func (a *Assistant) CycleLocale() i18n.Locale {
	next := a.tr.Next()
	a.SetLocale(next)
	return next
}

// Locale returns the display language
func (a *Assistant) Locale() i18n.Locale {
	return a.tr.Locale()
}

// T resolves a label in the current locale
func (a *Assistant) T(key string) string {
	return a.tr.T(key)
}

func (a *Assistant) botTurn(text string) models.ChatTurn {
	return models.ChatTurn{
		Text:        text,
		Sender:      models.SenderBot,
		DisplayName: a.tr.T(i18n.KeyBotName),
	}
}
