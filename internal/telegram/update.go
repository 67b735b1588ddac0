package telegram

import (
	"encoding/json"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Parse failures are typed so the dispatcher can route them to the
// fallback path instead of treating them as hard errors.
var (
	ErrUnsupportedUpdate = errors.New("update carries neither message nor callback query")
	ErrMalformedUpdate   = errors.New("malformed update")
)

// UpdateKind tags the variant of an inbound update.
type UpdateKind int

const (
	KindMessage UpdateKind = iota + 1
	KindCallbackQuery
)

// CallbackPayload is the JSON object carried in inline-button data,
// identifying which action was pressed and with what value.
type CallbackPayload struct {
	Command string `json:"command"`
	Value   string `json:"value"`
}

// CallbackData encodes a payload for use as inline-button data.
func CallbackData(command, value string) string {
	data, _ := json.Marshal(CallbackPayload{Command: command, Value: value})
	return string(data)
}

// Update is the typed view of an inbound Telegram update. Parsing is
// pure data extraction; no I/O happens here.
type Update struct {
	Kind      UpdateKind
	ChatID    int64
	Username  string
	FirstName string
	MessageID int

	// Message variant only.
	Text string

	// Callback-query variant only.
	CallbackQueryID string
	Callback        CallbackPayload
}

// ParseUpdate extracts the typed variant from a raw update. Exactly one
// of message or callback_query determines the kind; neither is
// ErrUnsupportedUpdate, and missing nested fields are ErrMalformedUpdate.
func ParseUpdate(raw *tgbotapi.Update) (*Update, error) {
	switch {
	case raw.Message != nil:
		return parseMessage(raw.Message)
	case raw.CallbackQuery != nil:
		return parseCallbackQuery(raw.CallbackQuery)
	default:
		return nil, ErrUnsupportedUpdate
	}
}

func parseMessage(msg *tgbotapi.Message) (*Update, error) {
	if msg.Chat == nil {
		return nil, fmt.Errorf("%w: message without chat", ErrMalformedUpdate)
	}
	return &Update{
		Kind:      KindMessage,
		ChatID:    msg.Chat.ID,
		Username:  msg.Chat.UserName,
		FirstName: msg.Chat.FirstName,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}, nil
}

func parseCallbackQuery(cb *tgbotapi.CallbackQuery) (*Update, error) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return nil, fmt.Errorf("%w: callback query without chat", ErrMalformedUpdate)
	}

	var payload CallbackPayload
	if err := json.Unmarshal([]byte(cb.Data), &payload); err != nil {
		return nil, fmt.Errorf("%w: callback data %q: %v", ErrMalformedUpdate, cb.Data, err)
	}

	return &Update{
		Kind:            KindCallbackQuery,
		ChatID:          cb.Message.Chat.ID,
		Username:        cb.Message.Chat.UserName,
		FirstName:       cb.Message.Chat.FirstName,
		MessageID:       cb.Message.MessageID,
		CallbackQueryID: cb.ID,
		Callback:        payload,
	}, nil
}
