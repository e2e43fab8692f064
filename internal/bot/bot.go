// Package bot is the Telegram front end for learners.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/kidspeak/internal/coach"
	"github.com/example/kidspeak/internal/evaluator"
	"github.com/example/kidspeak/internal/metrics"
	"github.com/example/kidspeak/internal/practice"
	"github.com/example/kidspeak/internal/progression"
	"github.com/example/kidspeak/pkg/models"
)

// Learners is the part of the progression engine the bot needs
type Learners interface {
	CreateLearner(ctx context.Context, p *models.LearnerProfile) error
	Profile(learnerID string) (*models.LearnerProfile, error)
	Touch(ctx context.Context, learnerID string) error
}

// Grader grades answers and commits finished stages
type Grader interface {
	CheckRepeat(ctx context.Context, req evaluator.AttemptRequest) (*evaluator.Result, error)
	CheckSpelling(ctx context.Context, req evaluator.AttemptRequest) (*evaluator.Result, error)
}

// Conversation runs coach dialogues
type Conversation interface {
	Converse(ctx context.Context, learnerID, text, role string) (*coach.Reply, error)
	End(learnerID string)
}

// Content generates practice items. Optional.
type Content interface {
	GenerateSentence(ctx context.Context, req practice.SentenceRequest) (string, error)
	WordUsage(ctx context.Context, word string) (string, error)
	WordMeaning(ctx context.Context, word string) (string, error)
}

// sender is the subset of the Telegram API used to answer
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Deps are the collaborators of the bot
type Deps struct {
	Learners     Learners
	Grader       Grader
	Conversation Conversation
	Content      Content
	Words        *practice.WordBank
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// Bot represents the Telegram bot application
type Bot struct {
	api      sender
	poller   *tgbotapi.BotAPI
	config   Config
	deps     Deps
	logger   *slog.Logger
	sessions *sessions

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// New connects to Telegram with token and creates the bot
func New(token string, cfg Config, deps Deps) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}

	b := newBot(api, cfg, deps)
	b.poller = api
	b.logger.Info("authorized on telegram", "account", api.Self.UserName)
	return b, nil
}

func newBot(api sender, cfg Config, deps Deps) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Words == nil {
		deps.Words = practice.NewWordBank()
	}
	return &Bot{
		api:      api,
		config:   cfg,
		deps:     deps,
		logger:   logger.With("component", "bot"),
		sessions: newSessions(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start polls Telegram for updates until ctx is cancelled. Each update is
// handled in its own goroutine; Start waits for them before returning.
func (b *Bot) Start(ctx context.Context) error {
	if b.poller == nil {
		return errors.New("bot is not connected to telegram")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := b.poller.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup
	defer wg.Wait()

	b.logger.Info("bot started")
	for {
		select {
		case <-ctx.Done():
			b.poller.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate answers one incoming update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	command := message.Command()
	label := command
	if label == "" {
		label = "text"
	}
	b.deps.Metrics.RecordBotUpdate(label)

	text, err := b.dispatch(ctx, message)
	if err != nil {
		b.logger.Error("failed to handle update",
			"command", label, "chat_id", message.Chat.ID, "error", err)
		text = errorText(err)
	}
	if text == "" {
		return
	}
	if err := b.send(message.Chat.ID, text); err != nil {
		b.logger.Error("failed to send message", "chat_id", message.Chat.ID, "error", err)
	}
}

func (b *Bot) dispatch(ctx context.Context, message *tgbotapi.Message) (string, error) {
	learnerID := learnerIDFor(message.From)
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message.From)
	case "help":
		return helpText, nil
	case "spell":
		return b.handleSpell(ctx, message.Chat.ID, learnerID, args)
	case "repeat":
		return b.handleRepeat(ctx, message.Chat.ID, learnerID, args)
	case "chat":
		return b.handleChat(ctx, message.Chat.ID, learnerID, args)
	case "roleplay":
		return b.handleRoleplay(ctx, message.Chat.ID, learnerID, args)
	case "meaning":
		return b.handleMeaning(ctx, args)
	case "stats":
		return b.handleStats(learnerID)
	case "end":
		return b.handleEnd(ctx, message.Chat.ID, learnerID)
	case "":
		return b.handleText(ctx, message.Chat.ID, learnerID, message.Text)
	default:
		return "Unknown command. Use /help to see what I can do.", nil
	}
}

func (b *Bot) send(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// learnerIDFor maps a Telegram user to a learner id
func learnerIDFor(user *tgbotapi.User) string {
	return "tg" + strconv.FormatInt(user.ID, 10)
}

func errorText(err error) string {
	switch {
	case errors.Is(err, progression.ErrUnknownLearner):
		return "I don't know you yet. Send /start first!"
	case errors.Is(err, progression.ErrMalformedInput):
		return "I couldn't read that. Please try again."
	default:
		return "Oops, something went wrong. Please try again in a moment."
	}
}
