package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdateMessage(t *testing.T) {
	raw := &tgbotapi.Update{
		UpdateID: 287379129,
		Message: &tgbotapi.Message{
			MessageID: 4,
			Chat: &tgbotapi.Chat{
				ID:        213517771,
				UserName:  "someUsername",
				FirstName: "Some User",
			},
			Text: "/start",
		},
	}

	upd, err := ParseUpdate(raw)
	require.NoError(t, err)
	assert.Equal(t, KindMessage, upd.Kind)
	assert.Equal(t, int64(213517771), upd.ChatID)
	assert.Equal(t, "someUsername", upd.Username)
	assert.Equal(t, "Some User", upd.FirstName)
	assert.Equal(t, 4, upd.MessageID)
	assert.Equal(t, "/start", upd.Text)
}

func TestParseUpdateCallbackQuery(t *testing.T) {
	raw := &tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-42",
			Data: `{"command":"gender","value":"F"}`,
			Message: &tgbotapi.Message{
				MessageID: 7,
				Chat: &tgbotapi.Chat{
					ID:        999,
					UserName:  "someUsername",
					FirstName: "Some User",
				},
			},
		},
	}

	upd, err := ParseUpdate(raw)
	require.NoError(t, err)
	assert.Equal(t, KindCallbackQuery, upd.Kind)
	assert.Equal(t, int64(999), upd.ChatID)
	assert.Equal(t, "cb-42", upd.CallbackQueryID)
	assert.Equal(t, CallbackPayload{Command: "gender", Value: "F"}, upd.Callback)
}

func TestParseUpdateNeitherVariant(t *testing.T) {
	_, err := ParseUpdate(&tgbotapi.Update{UpdateID: 1})
	assert.ErrorIs(t, err, ErrUnsupportedUpdate)
}

func TestParseUpdateMessageWithoutChat(t *testing.T) {
	_, err := ParseUpdate(&tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 1}})
	assert.ErrorIs(t, err, ErrMalformedUpdate)
}

func TestParseUpdateCallbackWithoutMessage(t *testing.T) {
	_, err := ParseUpdate(&tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb"}})
	assert.ErrorIs(t, err, ErrMalformedUpdate)
}

func TestParseUpdateCallbackWithBadData(t *testing.T) {
	raw := &tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			Data:    "not-json",
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}},
		},
	}
	_, err := ParseUpdate(raw)
	assert.ErrorIs(t, err, ErrMalformedUpdate)
}

func TestCallbackDataRoundTrip(t *testing.T) {
	data := CallbackData("accept", "p1")
	assert.JSONEq(t, `{"command":"accept","value":"p1"}`, data)
}
