package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/kidspeak/internal/ai"
	"github.com/example/kidspeak/internal/evaluator"
	"github.com/example/kidspeak/internal/practice"
	"github.com/example/kidspeak/internal/progression"
	"github.com/example/kidspeak/pkg/models"
)

// TelegramClass is the class label of learners registered through the bot
const TelegramClass = "TG"

const helpText = "Here is what we can do together:\n\n" +
	"/spell [easy|medium|hard] - spelling practice\n" +
	"/repeat [category] [easy|medium|hard] - type the sentence I show you\n" +
	"/chat [text] - talk with me in English\n" +
	"/roleplay <role> [text] - pretend I am your teacher, friend, interviewer or viva examiner\n" +
	"/meaning <word> - what a word means\n" +
	"/stats - your level and stars\n" +
	"/end - finish for today\n\n" +
	"Every stage has 5 items. Your stars are saved when you finish the fifth one."

func (b *Bot) handleStart(ctx context.Context, user *tgbotapi.User) (string, error) {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.UserName
	}

	err := b.deps.Learners.CreateLearner(ctx, &models.LearnerProfile{
		ID:    learnerIDFor(user),
		Name:  name,
		Class: TelegramClass,
	})
	switch {
	case errors.Is(err, progression.ErrLearnerExists):
		return fmt.Sprintf("Welcome back, %s! 🎉\n\n%s", displayName(name), helpText), nil
	case err != nil:
		return "", fmt.Errorf("failed to register learner: %w", err)
	}

	b.logger.Info("learner registered", "learner_id", learnerIDFor(user))
	return fmt.Sprintf("Hi %s! 👋 I am your English buddy.\n\n%s", displayName(name), helpText), nil
}

func (b *Bot) handleSpell(ctx context.Context, chatID int64, learnerID, args string) (string, error) {
	profile, err := b.deps.Learners.Profile(learnerID)
	if err != nil {
		return "", err
	}
	difficulty := requestedDifficulty(strings.Fields(args), profile.Level)

	sess := b.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.startStage(models.ModeSpellBee, difficulty, "")
	prompt, err := b.nextWord(ctx, sess, profile.Level)
	if err != nil {
		sess.reset()
		return "", err
	}
	return fmt.Sprintf("🐝 Spelling stage started (%s)!\n\n%s", sess.difficulty, prompt), nil
}

func (b *Bot) handleRepeat(ctx context.Context, chatID int64, learnerID, args string) (string, error) {
	profile, err := b.deps.Learners.Profile(learnerID)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(args)
	category := practice.DefaultCategory
	if len(fields) > 0 {
		category, _ = practice.LookupCategory(fields[0])
		fields = fields[1:]
	}
	difficulty := requestedDifficulty(fields, profile.Level)

	sess := b.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.startStage(models.ModeRepeat, difficulty, category)
	prompt := b.nextSentence(ctx, sess, profile.Level)
	return fmt.Sprintf("🗣 Repeat stage started (%s)!\n\n%s", category, prompt), nil
}

func (b *Bot) handleChat(ctx context.Context, chatID int64, learnerID, args string) (string, error) {
	sess := b.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.reset()
	sess.mode = modeConversation
	if args == "" {
		return "Let's talk! 😊 Tell me about your day.", nil
	}
	return b.converse(ctx, learnerID, args, "")
}

func (b *Bot) handleRoleplay(ctx context.Context, chatID int64, learnerID, args string) (string, error) {
	role, text, _ := strings.Cut(args, " ")
	role = strings.ToLower(strings.TrimSpace(role))
	if _, ok := ai.Roles[role]; !ok {
		return fmt.Sprintf("Who should I be? Try /roleplay with one of: %s", strings.Join(roleNames(), ", ")), nil
	}

	sess := b.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.reset()
	sess.mode = modeRoleplay
	sess.role = role

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Sprintf("🎭 I am your %s now. Say hello!", role), nil
	}
	return b.converse(ctx, learnerID, text, role)
}

func (b *Bot) handleMeaning(ctx context.Context, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Which word? Try /meaning elephant", nil
	}
	if b.deps.Content == nil {
		return "Word meanings are not available right now.", nil
	}
	word := strings.ToLower(fields[0])

	ctx, cancel := context.WithTimeout(ctx, b.config.ContentTimeout)
	defer cancel()

	meaning, err := b.deps.Content.WordMeaning(ctx, word)
	if err != nil {
		return "", fmt.Errorf("failed to explain %q: %w", word, err)
	}
	return fmt.Sprintf("📖 %s\n\n%s", word, strings.TrimSpace(meaning)), nil
}

func (b *Bot) handleStats(learnerID string) (string, error) {
	profile, err := b.deps.Learners.Profile(learnerID)
	if err != nil {
		return "", err
	}
	return formatProgress(profile), nil
}

func (b *Bot) handleEnd(ctx context.Context, chatID int64, learnerID string) (string, error) {
	b.deps.Conversation.End(learnerID)
	b.sessions.drop(chatID)

	if err := b.deps.Learners.Touch(ctx, learnerID); err != nil && !errors.Is(err, progression.ErrUnknownLearner) {
		return "", err
	}
	return "Bye for now! 👋 Your stars are safe. Come back soon!", nil
}

func (b *Bot) handleText(ctx context.Context, chatID int64, learnerID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	sess := b.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch sess.mode {
	case modePractice:
		return b.answer(ctx, sess, learnerID, text)
	case modeConversation:
		return b.converse(ctx, learnerID, text, "")
	case modeRoleplay:
		return b.converse(ctx, learnerID, text, sess.role)
	default:
		return "Pick something to do first. Use /help to see the options.", nil
	}
}

// answer grades text against the current stage item. The session lock
// must be held.
func (b *Bot) answer(ctx context.Context, sess *session, learnerID, text string) (string, error) {
	stage := sess.stage
	req := evaluator.AttemptRequest{
		LearnerID:     learnerID,
		Student:       text,
		Reference:     stage.Item,
		StageComplete: stage.IsLast(),
		StageID:       stage.ID,
	}

	var (
		result *evaluator.Result
		err    error
	)
	if stage.Mode == models.ModeSpellBee {
		result, err = b.deps.Grader.CheckSpelling(ctx, req)
	} else {
		result, err = b.deps.Grader.CheckRepeat(ctx, req)
	}
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(formatResult(stage.Mode, result))

	if stage.Answered(result.Outcome.Stars) {
		out.WriteString("\n\n")
		out.WriteString(formatStageSummary(stage, result))
		sess.reset()
		return out.String(), nil
	}

	profile, err := b.deps.Learners.Profile(learnerID)
	if err != nil {
		return "", err
	}

	var next string
	if stage.Mode == models.ModeSpellBee {
		next, err = b.nextWord(ctx, sess, profile.Level)
		if err != nil {
			return "", err
		}
	} else {
		next = b.nextSentence(ctx, sess, profile.Level)
	}
	out.WriteString("\n\n")
	out.WriteString(next)
	return out.String(), nil
}

func (b *Bot) converse(ctx context.Context, learnerID, text, role string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.DialogueTimeout)
	defer cancel()

	reply, err := b.deps.Conversation.Converse(ctx, learnerID, text, role)
	if err != nil {
		return "", err
	}
	return formatReply(reply), nil
}

// nextWord presents the next spelling word of the stage
func (b *Bot) nextWord(ctx context.Context, sess *session, level int) (string, error) {
	word, _ := b.deps.Words.Pick(sess.difficulty, level)
	if word == "" {
		return "", errors.New("no spelling words available")
	}
	sess.stage.Present(word)

	return fmt.Sprintf("Word %d of %d. Spell the missing word:\n%s",
		sess.stage.Done()+1, sess.stage.Size, b.spellingClue(ctx, word)), nil
}

// spellingClue hides word inside a usage sentence, or shows its letter
// pattern when no sentence can be generated.
func (b *Bot) spellingClue(ctx context.Context, word string) string {
	if b.deps.Content != nil {
		ctx, cancel := context.WithTimeout(ctx, b.config.ContentTimeout)
		defer cancel()

		usage, err := b.deps.Content.WordUsage(ctx, word)
		if err == nil {
			if masked, ok := maskWord(usage, word); ok {
				return masked
			}
		} else {
			b.logger.Warn("failed to generate word usage", "word", word, "error", err)
		}
	}
	return letterPattern(word)
}

// nextSentence presents the next repeat sentence of the stage
func (b *Bot) nextSentence(ctx context.Context, sess *session, level int) string {
	b.rndMu.Lock()
	req := practice.NewSentenceRequest(sess.category, sess.difficulty, level, b.rnd)
	b.rndMu.Unlock()

	sentence := ""
	if b.deps.Content != nil {
		ctx, cancel := context.WithTimeout(ctx, b.config.ContentTimeout)
		defer cancel()

		generated, err := b.deps.Content.GenerateSentence(ctx, req)
		if err != nil {
			b.logger.Warn("failed to generate sentence, using an example",
				"category", req.Category, "error", err)
		}
		sentence = generated
	}
	if sentence == "" {
		b.rndMu.Lock()
		sentence = practice.FallbackSentence(req, b.rnd)
		b.rndMu.Unlock()
	}
	sess.stage.Present(sentence)

	return fmt.Sprintf("Sentence %d of %d. Type it exactly:\n%s",
		sess.stage.Done()+1, sess.stage.Size, sentence)
}

// requestedDifficulty reads an optional difficulty argument, defaulting to
// the one recommended for level
func requestedDifficulty(fields []string, level int) models.Difficulty {
	if len(fields) == 0 {
		return progression.RecommendedDifficulty(level)
	}
	return models.ParseDifficulty(fields[0])
}

func roleNames() []string {
	names := make([]string, 0, len(ai.Roles))
	for name := range ai.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func displayName(name string) string {
	if name == "" {
		return "friend"
	}
	return name
}
