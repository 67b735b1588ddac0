package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flashid/volunteer-bot/internal/bot"
	"github.com/flashid/volunteer-bot/internal/telegram"
)

type fakeDispatcher struct {
	updates    []*telegram.Update
	broadcasts []bot.HelpRequest

	outcome telegram.Outcome
	err     error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, upd *telegram.Update) (telegram.Outcome, error) {
	f.updates = append(f.updates, upd)
	return f.outcome, f.err
}

func (f *fakeDispatcher) BroadcastHelpRequest(ctx context.Context, req bot.HelpRequest) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.broadcasts = append(f.broadcasts, req)
	return 1, nil
}

type fakeWebhooks struct {
	registered []string
	self       tgbotapi.User
}

func (f *fakeWebhooks) RegisterWebhook(url string) error {
	f.registered = append(f.registered, url)
	return nil
}

func (f *fakeWebhooks) Self() (tgbotapi.User, error) {
	return f.self, nil
}

func newTestServer(d *fakeDispatcher, wh *fakeWebhooks) *Server {
	if d == nil {
		d = &fakeDispatcher{outcome: telegram.Outcome{Success: true}}
	}
	if wh == nil {
		wh = &fakeWebhooks{self: tgbotapi.User{ID: 42, IsBot: true, UserName: "flashid_bot"}}
	}
	return New(d, wh, "https://bot.flashid.example", "test", zap.NewNop())
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(nil, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, Health!", rec.Body.String())
}

func TestHealthTelegram(t *testing.T) {
	rec := do(t, newTestServer(nil, nil), http.MethodGet, "/health?which=telegram", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "flashid_bot", body["username"])
	assert.Equal(t, true, body["is_bot"])
}

func TestSetWebhook(t *testing.T) {
	wh := &fakeWebhooks{}
	rec := do(t, newTestServer(nil, wh), http.MethodGet, "/setWebhook", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"https://bot.flashid.example/webhook"}, wh.registered)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://bot.flashid.example/webhook", body["webhook_url"])
	assert.Equal(t, "test", body["environment"])
}

func TestWebhookRejectsInvalidBody(t *testing.T) {
	d := &fakeDispatcher{}
	rec := do(t, newTestServer(d, nil), http.MethodPost, "/webhook", "not json at all")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, d.updates)
}

func TestWebhookNeitherVariantIsNoResponseNotice(t *testing.T) {
	d := &fakeDispatcher{}
	rec := do(t, newTestServer(d, nil), http.MethodPost, "/webhook", `{"update_id": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, d.updates, "unparseable variants never reach the dispatcher")

	var outcome telegram.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.False(t, outcome.Success)
	assert.Equal(t, "no response", outcome.Data.Error)
}

func TestWebhookDispatchesStartCommand(t *testing.T) {
	d := &fakeDispatcher{outcome: telegram.Outcome{
		Success: true,
		Data:    &telegram.OutcomeData{ChatID: 123, MessageID: 2},
	}}
	body := `{
		"update_id": 287379129,
		"message": {
			"message_id": 4,
			"chat": {"id": 123, "first_name": "Jamie", "username": "jamie", "type": "private"},
			"text": "/start"
		}
	}`

	rec := do(t, newTestServer(d, nil), http.MethodPost, "/webhook", body)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, d.updates, 1)
	assert.Equal(t, telegram.KindMessage, d.updates[0].Kind)
	assert.Equal(t, "/start", d.updates[0].Text)
	assert.Equal(t, "jamie", d.updates[0].Username)

	var outcome telegram.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Success)
	assert.Equal(t, int64(123), outcome.Data.ChatID)
}

func TestWebhookNoResponseFromDispatcher(t *testing.T) {
	d := &fakeDispatcher{err: bot.ErrNoResponse}
	body := `{"message": {"message_id": 1, "chat": {"id": 0}, "text": "noise"}}`

	rec := do(t, newTestServer(d, nil), http.MethodPost, "/webhook", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no response")
}

func TestRaspBroadcasts(t *testing.T) {
	d := &fakeDispatcher{}
	rec := do(t, newTestServer(d, nil), http.MethodPost, "/rasp", `{"id":"p1","long":"1.23","lat":"4.56"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DUCK", rec.Body.String())

	require.Len(t, d.broadcasts, 1)
	assert.Equal(t, bot.HelpRequest{ID: "p1", Longitude: "1.23", Latitude: "4.56"}, d.broadcasts[0])
}

func TestRaspMissingFieldIsRejected(t *testing.T) {
	d := &fakeDispatcher{}
	rec := do(t, newTestServer(d, nil), http.MethodPost, "/rasp", `{"long":"1.23","lat":"4.56"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, d.broadcasts, "rejected requests trigger zero sends")
}

func TestRaspInvalidBody(t *testing.T) {
	d := &fakeDispatcher{}
	rec := do(t, newTestServer(d, nil), http.MethodPost, "/rasp", "garbage")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, d.broadcasts)
}
