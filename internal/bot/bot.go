package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"productivity-tracker/internal/service"
)

const maxSessions = 1024

// telegramAPI is the part of tgbotapi.BotAPI the bot relies on.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Services are the managers the bot drives.
type Services struct {
	Categories *service.CategoryService
	Tasks      *service.TaskService
	Notes      *service.NoteService
	Reminders  *service.ReminderService
}

type Options struct {
	SessionTTL time.Duration
	Location   *time.Location
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api      telegramAPI
	svc      Services
	log      zerolog.Logger
	loc      *time.Location
	sessions *expirable.LRU[int64, *dialog]
	now      func() time.Time
}

func New(token string, svc Services, log zerolog.Logger, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	b := newBot(api, svc, log, opts)
	b.log.Info().Str("account", api.Self.UserName).Msg("bot authorized")
	return b, nil
}

func newBot(api telegramAPI, svc Services, log zerolog.Logger, opts Options) *Bot {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Bot{
		api:      api,
		svc:      svc,
		log:      log.With().Str("component", "bot").Logger(),
		loc:      opts.Location,
		sessions: expirable.NewLRU[int64, *dialog](maxSessions, nil, opts.SessionTTL),
		now:      time.Now,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}
	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			b.log.Error().Err(err).Msg("handle callback")
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error().Err(err).Int64("chat", update.Message.Chat.ID).Msg("handle message")
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.log.Debug().Int64("user", msg.From.ID).Str("command", msg.Command()).Str("args", msg.CommandArguments()).Msg("command")
		return b.handleCommand(ctx, msg)
	}

	if isCancelInput(msg.Text) {
		return b.cancelDialog(msg)
	}

	if d, ok := b.sessions.Get(msg.From.ID); ok {
		return b.continueDialog(ctx, msg, d)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /newtask to add a task or /help for the command list.")
}

// SendReport delivers the due-task digest to a chat.
func (b *Bot) SendReport(ctx context.Context, chatID int64) error {
	text, err := b.svc.Reminders.DueSummary(ctx, b.now().In(b.loc))
	if err != nil {
		return err
	}
	return b.sendText(chatID, text)
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

// sendError renders a manager error for the user. Unexpected errors are logged and hidden.
func (b *Bot) sendError(chatID int64, err error) error {
	text, known := userMessage(err)
	if !known {
		b.log.Error().Err(err).Int64("chat", chatID).Msg("request failed")
	}
	return b.sendText(chatID, text)
}
