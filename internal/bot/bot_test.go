package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kidspeak/internal/coach"
	"github.com/example/kidspeak/internal/evaluator"
	"github.com/example/kidspeak/internal/practice"
	"github.com/example/kidspeak/internal/progression"
	"github.com/example/kidspeak/pkg/models"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeConversation struct {
	mu    sync.Mutex
	roles []string
	ended []string
	err   error
}

func (f *fakeConversation) Converse(ctx context.Context, learnerID, text, role string) (*coach.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.roles = append(f.roles, role)
	return &coach.Reply{Correct: "I like cats", Praise: "Great job!", Question: "Do you have a pet?"}, nil
}

func (f *fakeConversation) End(learnerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, learnerID)
}

type fakeContent struct {
	sentence string
	usage    string
	meaning  string
	err      error
}

func (f *fakeContent) GenerateSentence(ctx context.Context, req practice.SentenceRequest) (string, error) {
	return f.sentence, f.err
}

func (f *fakeContent) WordUsage(ctx context.Context, word string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return strings.ReplaceAll(f.usage, "WORD", word), nil
}

func (f *fakeContent) WordMeaning(ctx context.Context, word string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return word + ": " + f.meaning, nil
}

type harness struct {
	bot    *Bot
	sender *fakeSender
	engine *progression.Engine
	conv   *fakeConversation
}

func newHarness(t *testing.T, content Content) *harness {
	t.Helper()
	engine := progression.NewEngine(nil)
	sender := &fakeSender{}
	conv := &fakeConversation{}
	b := newBot(sender, DefaultConfig(), Deps{
		Learners:     engine,
		Grader:       evaluator.NewEvaluator(engine, nil, nil),
		Conversation: conv,
		Content:      content,
	})
	return &harness{bot: b, sender: sender, engine: engine, conv: conv}
}

const chatID int64 = 4242

func command(text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: chatID, FirstName: "Mia"},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func plain(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: chatID, FirstName: "Mia"},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}}
}

func (h *harness) do(u tgbotapi.Update) string {
	h.bot.HandleUpdate(context.Background(), u)
	return h.sender.last()
}

func (h *harness) currentItem() string {
	sess := h.bot.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.stage == nil {
		return ""
	}
	return sess.stage.Item
}

func TestStartRegistersLearner(t *testing.T) {
	h := newHarness(t, nil)

	assert.Contains(t, h.do(command("/start")), "Hi Mia!")
	profile, err := h.engine.Profile("tg4242")
	require.NoError(t, err)
	assert.Equal(t, "Mia", profile.Name)
	assert.Equal(t, TelegramClass, profile.Class)
	assert.Equal(t, 1, profile.Level)

	assert.Contains(t, h.do(command("/start")), "Welcome back, Mia!")
}

func TestCommandsRequireRegistration(t *testing.T) {
	h := newHarness(t, nil)

	assert.Contains(t, h.do(command("/stats")), "Send /start first")
	assert.Contains(t, h.do(command("/spell")), "Send /start first")
}

func TestSpellingStageCommitsOnFifthAnswer(t *testing.T) {
	h := newHarness(t, &fakeContent{usage: "My WORD is on the table."})
	h.do(command("/start"))

	reply := h.do(command("/spell easy"))
	assert.Contains(t, reply, "Word 1 of 5")
	assert.Contains(t, reply, "___")

	for i := 0; i < practice.StageSize; i++ {
		word := h.currentItem()
		require.NotEmpty(t, word)
		reply = h.do(plain(word))

		profile, err := h.engine.Profile("tg4242")
		require.NoError(t, err)
		if i < practice.StageSize-1 {
			assert.Equal(t, 0, profile.TotalXP, "no points before the stage ends")
			assert.Contains(t, reply, "Word")
		}
	}

	assert.Contains(t, reply, "Stage complete")
	assert.Contains(t, reply, "15 stars in total")

	profile, err := h.engine.Profile("tg4242")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.TotalXP)
	assert.Equal(t, models.ModeStats{Stars: 3, Sessions: 1}, profile.ModeStats[models.ModeSpellBee])

	assert.Contains(t, h.do(plain("more")), "Pick something to do first")
}

func TestSpellingWrongAnswerShowsCorrection(t *testing.T) {
	h := newHarness(t, nil)
	h.do(command("/start"))
	h.do(command("/spell"))

	word := h.currentItem()
	reply := h.do(plain(word + "zz"))
	assert.Contains(t, reply, "Correct spelling: "+word)
	assert.Contains(t, reply, "Word 2 of 5")
}

func TestRepeatStageUsesGeneratedSentence(t *testing.T) {
	h := newHarness(t, &fakeContent{sentence: "The cat sat on the mat"})
	h.do(command("/start"))

	reply := h.do(command("/repeat animals"))
	assert.Contains(t, reply, "Repeat stage started (animals)")
	assert.Contains(t, reply, "The cat sat on the mat")

	reply = h.do(plain("the cat sat"))
	assert.Contains(t, reply, "Sentence 2 of 5")
	assert.Contains(t, reply, "on_")

	for i := 1; i < practice.StageSize; i++ {
		reply = h.do(plain("The cat sat on the mat"))
	}
	assert.Contains(t, reply, "Stage complete")

	profile, err := h.engine.Profile("tg4242")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.TotalXP)
	assert.Equal(t, 1, profile.ModeStats[models.ModeRepeat].Sessions)
}

func TestRepeatFallsBackToExamples(t *testing.T) {
	h := newHarness(t, &fakeContent{err: errors.New("provider down")})
	h.do(command("/start"))
	h.do(command("/repeat"))

	assert.NotEmpty(t, h.currentItem())
}

func TestChatAndRoleplay(t *testing.T) {
	h := newHarness(t, nil)
	h.do(command("/start"))

	assert.Contains(t, h.do(command("/chat")), "Let's talk")
	assert.Equal(t, "I like cats. Great job! Do you have a pet?", h.do(plain("I like cat")))

	assert.Contains(t, h.do(command("/roleplay pirate")), "interviewer")
	assert.Contains(t, h.do(command("/roleplay friend")), "I am your friend now")
	h.do(plain("hello"))
	h.do(command("/roleplay Teacher good morning"))

	assert.Equal(t, []string{"", "friend", "teacher"}, h.conv.roles)
}

func TestDialogueFailureIsReported(t *testing.T) {
	h := newHarness(t, nil)
	h.conv.err = errors.New("timeout")
	h.do(command("/chat"))

	assert.Contains(t, h.do(plain("hello")), "something went wrong")
}

func TestEndClearsSession(t *testing.T) {
	h := newHarness(t, nil)
	h.do(command("/start"))
	h.do(command("/spell"))

	assert.Contains(t, h.do(command("/end")), "Bye for now")
	assert.Equal(t, []string{"tg4242"}, h.conv.ended)
	assert.Equal(t, 0, h.bot.sessions.len())
}

func TestStats(t *testing.T) {
	h := newHarness(t, nil)
	h.do(command("/start"))
	_, err := h.engine.ApplyStageResult(context.Background(), "tg4242", 3, models.ModeRepeat)
	require.NoError(t, err)

	reply := h.do(command("/stats"))
	assert.Contains(t, reply, "Level 1")
	assert.Contains(t, reply, "XP: 3 (3/25 to the next level)")
	assert.Contains(t, reply, "repeat: 3 stars in 1 stages")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, nil)
	assert.Contains(t, h.do(command("/dance")), "Unknown command")
}

func TestMaskWord(t *testing.T) {
	masked, ok := maskWord("The Cat is cute. I love my cat!", "cat")
	require.True(t, ok)
	assert.Equal(t, "The ___ is cute. I love my ___!", masked)

	_, ok = maskWord("Dogs are fun", "cat")
	assert.False(t, ok)
	_, ok = maskWord("concatenate", "cat")
	assert.False(t, ok)
}

func TestLetterPattern(t *testing.T) {
	assert.Equal(t, "c _ _ (3 letters)", letterPattern("cat"))
	assert.Equal(t, "", letterPattern(""))
}

func TestMeaning(t *testing.T) {
	h := newHarness(t, &fakeContent{meaning: "a very large grey animal"})

	assert.Contains(t, h.do(command("/meaning")), "Which word?")
	reply := h.do(command("/meaning Elephant"))
	assert.Contains(t, reply, "📖 elephant")
	assert.Contains(t, reply, "elephant: a very large grey animal")
	assert.Contains(t, h.do(command("/help")), "/meaning <word>")
}

func TestMeaningUnavailable(t *testing.T) {
	assert.Contains(t, newHarness(t, nil).do(command("/meaning cat")), "not available")

	failing := newHarness(t, &fakeContent{err: errors.New("provider down")})
	assert.Contains(t, failing.do(command("/meaning cat")), "something went wrong")
}
