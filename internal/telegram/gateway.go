package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Outcome is the result of a single outbound platform call, mirrored
// into webhook response bodies.
type Outcome struct {
	Success bool         `json:"success"`
	Data    *OutcomeData `json:"data,omitempty"`
}

// OutcomeData carries the sent message coordinates on success or an
// error description on failure.
type OutcomeData struct {
	ChatID    int64  `json:"chat_id,omitempty"`
	MessageID int    `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func successOutcome(msg tgbotapi.Message) Outcome {
	data := &OutcomeData{MessageID: msg.MessageID}
	if msg.Chat != nil {
		data.ChatID = msg.Chat.ID
	}
	return Outcome{Success: true, Data: data}
}

func failureOutcome(err error) Outcome {
	return Outcome{Success: false, Data: &OutcomeData{Error: err.Error()}}
}

// Client is the slice of the Telegram bot API the gateway needs.
// *tgbotapi.BotAPI satisfies it.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetMe() (tgbotapi.User, error)
}

// Gateway wraps outbound Telegram calls. It is stateless and performs
// no retries; each call is a single blocking request.
type Gateway struct {
	client Client
	log    *zap.Logger
}

func NewGateway(client Client, log *zap.Logger) *Gateway {
	return &Gateway{client: client, log: log}
}

// SendMessage sends an HTML-formatted text message, optionally with an
// inline keyboard.
func (g *Gateway) SendMessage(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) Outcome {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = *markup
	}

	sent, err := g.client.Send(msg)
	if err != nil {
		g.log.Warn("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return failureOutcome(err)
	}
	return successOutcome(sent)
}

// SendPoll sends a native poll. Poll answers are not correlated back;
// this is fire-and-forget. Telegram accepts 2 to 10 options.
func (g *Gateway) SendPoll(chatID int64, question string, options []string, allowMultiple bool, openPeriodSeconds int, anonymous bool) Outcome {
	if len(options) < 2 || len(options) > 10 {
		return failureOutcome(fmt.Errorf("poll needs 2 to 10 options, got %d", len(options)))
	}

	poll := tgbotapi.NewPoll(chatID, question, options...)
	poll.AllowsMultipleAnswers = allowMultiple
	poll.IsAnonymous = anonymous
	poll.OpenPeriod = openPeriodSeconds

	sent, err := g.client.Send(poll)
	if err != nil {
		g.log.Warn("send poll failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return failureOutcome(err)
	}
	return successOutcome(sent)
}

// SendPhoto sends a photo by URL.
func (g *Gateway) SendPhoto(chatID int64, photoURL string) Outcome {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))

	sent, err := g.client.Send(photo)
	if err != nil {
		g.log.Warn("send photo failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return failureOutcome(err)
	}
	return successOutcome(sent)
}

// AnswerCallback acknowledges a callback query so the client stops
// showing the pending spinner.
func (g *Gateway) AnswerCallback(callbackQueryID, text string, showAlert bool) Outcome {
	callback := tgbotapi.NewCallback(callbackQueryID, text)
	callback.ShowAlert = showAlert

	resp, err := g.client.Request(callback)
	if err != nil {
		g.log.Warn("answer callback failed", zap.String("callback_query_id", callbackQueryID), zap.Error(err))
		return failureOutcome(err)
	}
	if !resp.Ok {
		return failureOutcome(fmt.Errorf("answer callback: %s", resp.Description))
	}
	return Outcome{Success: true}
}

// Broadcast sends the same message independently to every chat id. A
// failed send is logged and does not abort the remaining sends.
func (g *Gateway) Broadcast(text string, chatIDs []int64, markup *tgbotapi.InlineKeyboardMarkup) {
	for _, chatID := range chatIDs {
		if outcome := g.SendMessage(chatID, text, markup); !outcome.Success {
			g.log.Warn("broadcast recipient skipped", zap.Int64("chat_id", chatID))
		}
	}
}

// RegisterWebhook points the bot's webhook at the given URL.
func (g *Gateway) RegisterWebhook(url string) error {
	webhook, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := g.client.Request(webhook); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes the webhook and drops any queued updates.
func (g *Gateway) DeleteWebhook() error {
	if _, err := g.client.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// Self returns the bot's own account info.
func (g *Gateway) Self() (tgbotapi.User, error) {
	return g.client.GetMe()
}
