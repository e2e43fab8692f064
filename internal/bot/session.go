package bot

import (
	"sync"

	"github.com/example/kidspeak/internal/practice"
	"github.com/example/kidspeak/pkg/models"
)

// chatMode is what plain text in a chat is interpreted as
type chatMode int

const (
	modeIdle chatMode = iota
	modePractice
	modeConversation
	modeRoleplay
)

// session is the state of one chat. mu is held while a message of the chat
// is handled, so answers of one learner are graded in order.
type session struct {
	mu         sync.Mutex
	mode       chatMode
	role       string
	stage      *practice.Stage
	difficulty models.Difficulty
	category   string
}

// sessions maps chat ids to their state
type sessions struct {
	mu    sync.Mutex
	chats map[int64]*session
}

func newSessions() *sessions {
	return &sessions{chats: make(map[int64]*session)}
}

// get returns the session of a chat, creating it when missing
func (s *sessions) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.chats[chatID]
	if !ok {
		sess = &session{}
		s.chats[chatID] = sess
	}
	return sess
}

func (s *sessions) drop(chatID int64) {
	s.mu.Lock()
	delete(s.chats, chatID)
	s.mu.Unlock()
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chats)
}

// startStage resets the session to a fresh practice stage
func (sess *session) startStage(mode models.PracticeMode, difficulty models.Difficulty, category string) *practice.Stage {
	sess.mode = modePractice
	sess.role = ""
	sess.stage = practice.NewStage(mode)
	sess.difficulty = difficulty
	sess.category = category
	return sess.stage
}

func (sess *session) reset() {
	sess.mode = modeIdle
	sess.role = ""
	sess.stage = nil
}
