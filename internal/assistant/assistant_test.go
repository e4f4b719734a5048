package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"orderbot/internal/cart"
	"orderbot/internal/chat"
	"orderbot/internal/i18n"
	"orderbot/internal/metrics"
	"orderbot/internal/models"
	"orderbot/internal/recommend"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Chat(ctx context.Context, req chat.Request) (*chat.Response, error) {
	args := m.Called(ctx, req)
	reply, _ := args.Get(0).(*chat.Response)
	return reply, args.Error(1)
}

func testItem(id, title, price string) models.MenuItem {
	return models.MenuItem{ID: id, Title: title, Price: decimal.RequireFromString(price)}
}

func newTestAssistant(t *testing.T, svc chat.Service) (*Assistant, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	a := New(Options{
		Service:    svc,
		Translator: i18n.MustNew(i18n.English),
		Logger:     zap.New(core),
	})
	return a, logs
}

func TestNew_SeedsWelcomeTurn(t *testing.T) {
	a, _ := newTestAssistant(t, nil)

	turns := a.Transcript()
	require.Len(t, turns, 1)
	assert.Equal(t, models.SenderBot, turns[0].Sender)
	assert.Equal(t, "OrderBot", turns[0].DisplayName)
	assert.Contains(t, turns[0].Text, "Welcome")
}

func TestLoadCatalog_Once(t *testing.T) {
	a, _ := newTestAssistant(t, nil)

	require.NoError(t, a.LoadCatalog([]models.MenuItem{testItem("1", "Noodles", "120")}))
	err := a.LoadCatalog(nil)
	assert.ErrorIs(t, err, ErrCatalogLoaded)
	assert.Len(t, a.Catalog(), 1)
}

func TestSend_Success(t *testing.T) {
	svc := new(mockService)
	a, _ := newTestAssistant(t, svc)
	require.NoError(t, a.LoadCatalog([]models.MenuItem{testItem("1", "Noodles", "120")}))

	svc.On("Chat", mock.Anything, mock.MatchedBy(func(req chat.Request) bool {
		return req.Message == "I want noodles" && len(req.Menu) == 1 && req.Menu[0].ID == "1"
	})).Return(&chat.Response{
		Response:        "Here are noodle options",
		RecommendedMenu: []models.MenuItem{{ID: "1"}},
	}, nil).Once()

	before := len(a.Transcript())
	require.NoError(t, a.Send(context.Background(), "I want noodles"))

	turns := a.Transcript()
	require.Len(t, turns, before+2)
	assert.Equal(t, models.SenderUser, turns[before].Sender)
	assert.Equal(t, "I want noodles", turns[before].Text)
	assert.Equal(t, models.SenderBot, turns[before+1].Sender)
	assert.Equal(t, "Here are noodle options", turns[before+1].Text)

	recs := a.Recommendations()
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0].Item.ID)
	assert.Equal(t, "Noodles", recs[0].Item.Title)
	assert.False(t, a.Pending())
	svc.AssertExpectations(t)
}

func TestSend_RecommendationsReferenceCatalog(t *testing.T) {
	svc := new(mockService)
	a, _ := newTestAssistant(t, svc)
	require.NoError(t, a.LoadCatalog([]models.MenuItem{testItem("1", "Noodles", "120")}))

	svc.On("Chat", mock.Anything, mock.Anything).Return(&chat.Response{
		Response:        "ok",
		RecommendedMenu: []models.MenuItem{{ID: "1", Title: "stale copy"}},
	}, nil)

	require.NoError(t, a.Send(context.Background(), "noodles"))
	items := a.view.Items()
	require.Len(t, items, 1)
	assert.Same(t, a.index["1"], items[0])
	assert.Equal(t, "Noodles", items[0].Title)
}

func TestSend_DropsUnknownRecommendations(t *testing.T) {
	svc := new(mockService)
	a, logs := newTestAssistant(t, svc)
	require.NoError(t, a.LoadCatalog([]models.MenuItem{testItem("1", "Noodles", "120")}))

	svc.On("Chat", mock.Anything, mock.Anything).Return(&chat.Response{
		Response:        "ok",
		RecommendedMenu: []models.MenuItem{{ID: "1"}, {ID: "99"}},
	}, nil)

	require.NoError(t, a.Send(context.Background(), "anything"))
	assert.Len(t, a.Recommendations(), 1)
	assert.Equal(t, 1, logs.FilterMessage("recommended item is not in the catalog").Len())
}

func TestSend_BlankIsNoop(t *testing.T) {
	svc := new(mockService)
	a, _ := newTestAssistant(t, svc)

	for _, text := range []string{"", "   ", "\n\t"} {
		err := a.Send(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Len(t, a.Transcript(), 1)
	svc.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestSend_FailureAppendsApology(t *testing.T) {
	svc := new(mockService)
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.New()
	a := New(Options{Service: svc, Logger: zap.New(core), Metrics: m})

	svc.On("Chat", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	require.NoError(t, a.Send(context.Background(), "hello"))

	turns := a.Transcript()
	require.Len(t, turns, 3)
	last := turns[2]
	assert.Equal(t, models.SenderBot, last.Sender)
	assert.Equal(t, a.T(i18n.KeyFailedToRespond), last.Text)
	assert.False(t, a.Pending())
	assert.Empty(t, a.Recommendations())

	entries := logs.FilterMessage("chat request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	expected := `
# HELP orderbot_chat_requests_total Chat messages sent to the recommendation service
# TYPE orderbot_chat_requests_total counter
orderbot_chat_requests_total{outcome="failure"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "orderbot_chat_requests_total"))
}

func TestSend_FailureKeepsPreviousRecommendations(t *testing.T) {
	svc := new(mockService)
	a, _ := newTestAssistant(t, svc)
	require.NoError(t, a.LoadCatalog([]models.MenuItem{testItem("1", "Noodles", "120")}))

	svc.On("Chat", mock.Anything, mock.Anything).Return(&chat.Response{
		Response:        "ok",
		RecommendedMenu: []models.MenuItem{{ID: "1"}},
	}, nil).Once()
	svc.On("Chat", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	require.NoError(t, a.Send(context.Background(), "first"))
	require.NoError(t, a.Send(context.Background(), "second"))
	assert.Len(t, a.Recommendations(), 1)
}

func TestBeginSend_RejectsWhilePending(t *testing.T) {
	a, _ := newTestAssistant(t, new(mockService))

	p, err := a.BeginSend("first")
	require.NoError(t, err)
	require.True(t, a.Pending())
	before := a.Transcript()

	_, err = a.BeginSend("second")
	assert.ErrorIs(t, err, ErrSendPending)
	assert.Equal(t, before, a.Transcript())

	require.NoError(t, a.Complete(p, chat.Result{Reply: &chat.Response{Response: "hi"}}))
	assert.False(t, a.Pending())

	_, err = a.BeginSend("third")
	assert.NoError(t, err)
}

func TestComplete_Stale(t *testing.T) {
	a, _ := newTestAssistant(t, nil)

	err := a.Complete(&PendingSend{}, chat.Result{})
	assert.ErrorIs(t, err, ErrStaleReply)
	assert.Len(t, a.Transcript(), 1)
}

func TestDeliver_SendsRawText(t *testing.T) {
	svc := new(mockService)
	a, _ := newTestAssistant(t, svc)

	svc.On("Chat", mock.Anything, mock.MatchedBy(func(req chat.Request) bool {
		return req.Message == "  spicy please  " && req.Menu != nil && len(req.Menu) == 0
	})).Return(&chat.Response{Response: "ok"}, nil)

	p, err := a.BeginSend("  spicy please  ")
	require.NoError(t, err)
	res := a.Deliver(context.Background(), p)
	assert.True(t, res.OK())
	svc.AssertExpectations(t)
}

func recommendAll(t *testing.T, a *Assistant, items ...models.MenuItem) {
	t.Helper()
	svc := new(mockService)
	a.service = svc
	require.NoError(t, a.LoadCatalog(items))
	svc.On("Chat", mock.Anything, mock.Anything).Return(&chat.Response{
		Response:        "here you go",
		RecommendedMenu: items,
	}, nil)
	require.NoError(t, a.Send(context.Background(), "show me"))
}

func TestAddToOrder(t *testing.T) {
	a, _ := newTestAssistant(t, nil)
	recommendAll(t, a, testItem("A", "Biryani", "10.00"), testItem("B", "Lassi", "5.50"))

	_, err := a.AddToOrder("A")
	assert.ErrorIs(t, err, recommend.ErrZeroQuantity)
	assert.Empty(t, a.Cart().Lines)

	_, err = a.Increment("A")
	require.NoError(t, err)
	qty, err := a.Increment("A")
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	line, err := a.AddToOrder("A")
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	for _, r := range a.Recommendations() {
		assert.Zero(t, r.Quantity)
		assert.False(t, r.CanAdd)
	}

	snap := a.Cart()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "20.00", snap.Total.StringFixed(2))
}

func TestDecrement_ClampsAtZero(t *testing.T) {
	a, _ := newTestAssistant(t, nil)
	recommendAll(t, a, testItem("A", "Biryani", "10.00"))

	qty, err := a.Decrement("A")
	require.NoError(t, err)
	assert.Zero(t, qty)

	_, err = a.Increment("missing")
	assert.ErrorIs(t, err, recommend.ErrUnknownItem)
}

func TestConfirmOrder(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()
	a := New(Options{Logger: zap.New(core), Metrics: m})
	recommendAll(t, a, testItem("A", "Biryani", "10.00"), testItem("B", "Lassi", "5.50"))

	_, _ = a.Increment("A")
	_, _ = a.Increment("A")
	_, err := a.AddToOrder("A")
	require.NoError(t, err)
	_, _ = a.Increment("B")
	_, err = a.AddToOrder("B")
	require.NoError(t, err)

	_, err = a.ConfirmOrder()
	assert.ErrorIs(t, err, cart.ErrSummaryClosed)

	require.NoError(t, a.RequestConfirmation())
	assert.True(t, a.Cart().SummaryOpen)

	before := len(a.Transcript())
	receipt, err := a.ConfirmOrder()
	require.NoError(t, err)
	assert.Equal(t, "25.50", receipt.Total.StringFixed(2))

	turns := a.Transcript()
	require.Len(t, turns, before+1)
	confirmation := turns[before]
	assert.Equal(t, models.SenderBot, confirmation.Sender)
	assert.Contains(t, confirmation.Text, "25.50")
	assert.True(t, strings.HasPrefix(confirmation.Text, a.T(i18n.KeyOrderConfirmed)))
	assert.True(t, strings.HasSuffix(confirmation.Text, a.T(i18n.KeyOrderArrival)))

	snap := a.Cart()
	assert.Empty(t, snap.Lines)
	assert.True(t, snap.Total.IsZero())
	assert.False(t, snap.SummaryOpen)

	assert.Equal(t, 1, logs.FilterMessage("order confirmed").Len())
	expected := `
# HELP orderbot_orders_confirmed_total Orders confirmed by users
# TYPE orderbot_orders_confirmed_total counter
orderbot_orders_confirmed_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "orderbot_orders_confirmed_total"))
}

func TestCancelConfirmation_LeavesCart(t *testing.T) {
	a, _ := newTestAssistant(t, nil)
	recommendAll(t, a, testItem("A", "Biryani", "10.00"))

	_, _ = a.Increment("A")
	_, err := a.AddToOrder("A")
	require.NoError(t, err)
	before := a.Cart()

	require.NoError(t, a.RequestConfirmation())
	a.CancelConfirmation()

	after := a.Cart()
	assert.Equal(t, before.Lines, after.Lines)
	assert.True(t, before.Total.Equal(after.Total))
	assert.False(t, after.SummaryOpen)
}

func TestRequestConfirmation_EmptyCart(t *testing.T) {
	a, _ := newTestAssistant(t, nil)
	assert.ErrorIs(t, a.RequestConfirmation(), cart.ErrEmptyCart)
}

func TestSetLocale_OnlyChangesLabels(t *testing.T) {
	a, _ := newTestAssistant(t, nil)
	recommendAll(t, a, testItem("A", "Biryani", "10.00"))
	_, _ = a.Increment("A")
	_, err := a.AddToOrder("A")
	require.NoError(t, err)

	transcript := a.Transcript()
	recs := a.Recommendations()
	snap := a.Cart()
	assert.Equal(t, "Total", a.T(i18n.KeyTotal))

	a.SetLocale(i18n.Hindi)

	assert.Equal(t, i18n.Hindi, a.Locale())
	assert.Equal(t, "कुल", a.T(i18n.KeyTotal))
	assert.Equal(t, transcript, a.Transcript())
	assert.Equal(t, recs, a.Recommendations())
	assert.Equal(t, snap.Lines, a.Cart().Lines)
}

func TestCycleLocale(t *testing.T) {
	a, _ := newTestAssistant(t, nil)

	assert.Equal(t, i18n.Telugu, a.CycleLocale())
	assert.Equal(t, i18n.Telugu, a.Locale())

	a.SetLocale("fr")
	assert.Equal(t, i18n.English, a.CycleLocale())
}
