package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/flashid/volunteer-bot/internal/model"
	"github.com/flashid/volunteer-bot/internal/repository"
	"github.com/flashid/volunteer-bot/internal/telegram"
)

const commandStart = "/start"

// Callback commands carried in inline-button payloads.
const (
	callbackGender   = "gender"
	callbackLanguage = "language"
	callbackAccept   = "accept"
)

// ErrNoResponse marks updates no handler could answer, distinct from a
// hard failure: the request was understood well enough to know there is
// nothing to say and nobody to say it to.
var ErrNoResponse = errors.New("no handler produced a response")

// VolunteerDirectory is the persistence capability the dispatcher needs.
// *repository.VolunteerRepository satisfies it.
type VolunteerDirectory interface {
	GetByUsername(ctx context.Context, username string) (*model.Volunteer, error)
	Create(ctx context.Context, username, firstName string, chatID int64) (*model.Volunteer, error)
	UpdateGender(ctx context.Context, username string, gender model.Gender) error
	UpdateLanguageAndActivate(ctx context.Context, username string, language model.Language) error
	SetAvailable(ctx context.Context, username string, available bool) error
	ListAvailableChatIDs(ctx context.Context) ([]int64, error)
}

// Gateway is the outbound messaging capability. *telegram.Gateway
// satisfies it.
type Gateway interface {
	SendMessage(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) telegram.Outcome
	SendPoll(chatID int64, question string, options []string, allowMultiple bool, openPeriodSeconds int, anonymous bool) telegram.Outcome
	SendPhoto(chatID int64, photoURL string) telegram.Outcome
	AnswerCallback(callbackQueryID, text string, showAlert bool) telegram.Outcome
	Broadcast(text string, chatIDs []int64, markup *tgbotapi.InlineKeyboardMarkup)
}

// SecurityImages hands out the shared verification image.
type SecurityImages interface {
	Select(ctx context.Context) (string, error)
}

// HelpRequest is an inbound alert from a PWID device.
type HelpRequest struct {
	ID        string `json:"id" validate:"required"`
	Longitude string `json:"long" validate:"required"`
	Latitude  string `json:"lat" validate:"required"`
}

// Dispatcher routes inbound updates to the onboarding state machine and
// owns the help-request broadcast flow.
type Dispatcher struct {
	volunteers   VolunteerDirectory
	gateway      Gateway
	images       SecurityImages
	imageBaseURL string
	log          *zap.Logger
}

func NewDispatcher(volunteers VolunteerDirectory, gateway Gateway, images SecurityImages, imageBaseURL string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		volunteers:   volunteers,
		gateway:      gateway,
		images:       images,
		imageBaseURL: imageBaseURL,
		log:          log,
	}
}

// Dispatch routes one update to its handler. Callback queries are
// acknowledged up front so the client spinner clears regardless of what
// the handler does afterwards.
func (d *Dispatcher) Dispatch(ctx context.Context, upd *telegram.Update) (telegram.Outcome, error) {
	switch upd.Kind {
	case telegram.KindMessage:
		if upd.Text == commandStart {
			return d.handleStart(ctx, upd)
		}
		return d.fallback(upd)

	case telegram.KindCallbackQuery:
		if ack := d.gateway.AnswerCallback(upd.CallbackQueryID, "", false); !ack.Success {
			d.log.Warn("callback ack failed", zap.String("callback_query_id", upd.CallbackQueryID))
		}
		switch upd.Callback.Command {
		case callbackGender:
			return d.handleGender(ctx, upd)
		case callbackLanguage:
			return d.handleLanguage(ctx, upd)
		case callbackAccept:
			return d.handleAccept(ctx, upd)
		default:
			d.log.Info("unknown callback command", zap.String("command", upd.Callback.Command))
			return d.fallback(upd)
		}

	default:
		return telegram.Outcome{}, ErrNoResponse
	}
}

// handleStart creates the volunteer record and asks for the gender
// preference. The insert is atomic on username, so a duplicate start
// leaves the original record untouched and gets the already-started
// notice instead.
func (d *Dispatcher) handleStart(ctx context.Context, upd *telegram.Update) (telegram.Outcome, error) {
	if upd.Username == "" {
		d.log.Info("start command without username", zap.Int64("chat_id", upd.ChatID))
		return d.fallback(upd)
	}

	_, err := d.volunteers.Create(ctx, upd.Username, upd.FirstName, upd.ChatID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return d.gateway.SendMessage(upd.ChatID, msgAlreadyStarted, nil), nil
	}
	if err != nil {
		return telegram.Outcome{}, err
	}

	d.log.Info("volunteer onboarding started", zap.String("username", upd.Username))
	return d.gateway.SendMessage(upd.ChatID, msgGenderRequest, genderKeyboard()), nil
}

// handleGender persists the gender preference and asks for the language
// preference with a multiple-answer poll.
func (d *Dispatcher) handleGender(ctx context.Context, upd *telegram.Update) (telegram.Outcome, error) {
	gender, ok := model.ParseGender(upd.Callback.Value)
	if !ok {
		d.log.Info("unknown gender value", zap.String("value", upd.Callback.Value))
		return d.fallback(upd)
	}

	if err := d.volunteers.UpdateGender(ctx, upd.Username, gender); err != nil {
		return telegram.Outcome{}, err
	}

	return d.gateway.SendPoll(upd.ChatID, msgLanguagePoll, model.LanguageDisplayNames(), true, 0, true), nil
}

// handleLanguage persists the language, completes onboarding, and sends
// the personalized success message.
func (d *Dispatcher) handleLanguage(ctx context.Context, upd *telegram.Update) (telegram.Outcome, error) {
	language, ok := model.ParseLanguage(upd.Callback.Value)
	if !ok {
		d.log.Info("unknown language value", zap.String("value", upd.Callback.Value))
		return d.fallback(upd)
	}

	if err := d.volunteers.UpdateLanguageAndActivate(ctx, upd.Username, language); err != nil {
		return telegram.Outcome{}, err
	}

	volunteer, err := d.volunteers.GetByUsername(ctx, upd.Username)
	if err != nil {
		return telegram.Outcome{}, err
	}

	d.log.Info("volunteer onboarding completed", zap.String("username", upd.Username))
	return d.gateway.SendMessage(upd.ChatID, fmt.Sprintf(msgOnboardSuccess, volunteer.FirstName), nil), nil
}

// handleAccept claims a help request: the volunteer goes busy, gets the
// request details plus the shared security image, and the rest of the
// pool is told the request has been taken.
func (d *Dispatcher) handleAccept(ctx context.Context, upd *telegram.Update) (telegram.Outcome, error) {
	if err := d.volunteers.SetAvailable(ctx, upd.Username, false); err != nil {
		return telegram.Outcome{}, err
	}
	d.log.Info("help request claimed",
		zap.String("username", upd.Username),
		zap.String("request_id", upd.Callback.Value))

	outcome := d.gateway.SendMessage(upd.ChatID, fmt.Sprintf(msgAcceptedRequest, upd.Callback.Value), nil)

	image, err := d.images.Select(ctx)
	if err != nil {
		return telegram.Outcome{}, err
	}
	d.gateway.SendPhoto(upd.ChatID, d.securityImageURL(image))

	remaining, err := d.volunteers.ListAvailableChatIDs(ctx)
	if err != nil {
		return telegram.Outcome{}, err
	}
	d.gateway.Broadcast(msgBroadcastAccepted, remaining, nil)

	return outcome, nil
}

// BroadcastHelpRequest fans a formatted alert out to every available
// volunteer. It does not change anyone's availability; that happens only
// when a volunteer claims via the Accept button. Returns the number of
// recipients attempted.
func (d *Dispatcher) BroadcastHelpRequest(ctx context.Context, req HelpRequest) (int, error) {
	chatIDs, err := d.volunteers.ListAvailableChatIDs(ctx)
	if err != nil {
		return 0, err
	}

	location := fmt.Sprintf("(%s, %s)", req.Latitude, req.Longitude)
	text := fmt.Sprintf(msgBroadcastRequest, location, req.ID)
	d.gateway.Broadcast(text, chatIDs, acceptKeyboard(req.ID))

	d.log.Info("help request broadcast",
		zap.String("request_id", req.ID),
		zap.Int("recipients", len(chatIDs)))
	return len(chatIDs), nil
}

// fallback answers unrecognized input with a generic notice when a chat
// is resolvable, and reports no-response otherwise.
func (d *Dispatcher) fallback(upd *telegram.Update) (telegram.Outcome, error) {
	if upd.ChatID == 0 {
		return telegram.Outcome{}, ErrNoResponse
	}
	return d.gateway.SendMessage(upd.ChatID, msgInvalidInput, nil), nil
}

func (d *Dispatcher) securityImageURL(value string) string {
	return fmt.Sprintf("%s/%s.png", d.imageBaseURL, value)
}

func genderKeyboard() *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(model.GenderMale.DisplayName(),
				telegram.CallbackData(callbackGender, string(model.GenderMale))),
			tgbotapi.NewInlineKeyboardButtonData(model.GenderFemale.DisplayName(),
				telegram.CallbackData(callbackGender, string(model.GenderFemale))),
		),
	)
	return &markup
}

func acceptKeyboard(requestID string) *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnAccept,
				telegram.CallbackData(callbackAccept, requestID)),
		),
	)
	return &markup
}
