package practice

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/example/kidspeak/pkg/models"
)

var builtinWords = map[models.Difficulty][]string{
	models.DifficultyEasy: {
		"cat", "dog", "sun", "moon", "tree", "fish", "bird", "house", "book", "star",
		"ball", "cake", "milk", "rain", "snow", "wind", "fire", "door", "hand", "foot",
		"head", "nose", "eyes", "hair", "bike", "boat", "car", "bus", "lamp", "bell",
		"desk", "chair", "plant", "flower", "grass", "cloud", "smile", "happy", "jump", "sing",
	},
	models.DifficultyMedium: {
		"elephant", "butterfly", "rainbow", "mountain", "ocean", "garden", "kitchen", "bedroom",
		"library", "hospital", "balloon", "chocolate", "sandwich", "umbrella", "telephone",
		"computer", "bicycle", "monkey", "giraffe", "pencil", "notebook", "beautiful",
		"wonderful", "excellent", "surprise", "remember", "favorite", "together", "tomorrow",
		"yesterday", "adventure", "question", "answer", "different", "important", "birthday",
		"holiday", "vacation", "celebration", "gratitude",
	},
	models.DifficultyHard: {
		"magnificent", "extraordinary", "intelligence", "temperature", "environment",
		"photography", "responsibility", "appreciate", "participate", "communicate",
		"imagination", "encyclopedia", "sophisticated", "achievement", "opportunity",
		"enthusiasm", "independent", "understand", "comfortable", "accomplish",
		"neighborhood", "refrigerator", "pronunciation", "explanation", "demonstration",
		"disappointed", "embarrassed", "fortunately", "unfortunately", "particularly",
		"absolutely", "actually", "basically", "completely", "definitely", "especially",
		"immediately", "necessary", "obviously", "seriously",
	},
}

// WordBank serves spelling words by difficulty. It starts with the built-in
// pools and can be extended with imported words.
type WordBank struct {
	mu    sync.RWMutex
	words map[models.Difficulty][]string
	seen  map[string]models.Difficulty

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewWordBank creates a bank holding the built-in words
func NewWordBank() *WordBank {
	b := &WordBank{
		words: make(map[models.Difficulty][]string),
		seen:  make(map[string]models.Difficulty),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for d, pool := range builtinWords {
		for _, w := range pool {
			b.add(w, d)
		}
	}
	return b
}

// Add merges words into the bank. A word already present moves to its new
// difficulty. It returns the number of words added or moved.
func (b *WordBank) Add(words []models.SpellingWord) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, w := range words {
		if b.add(w.Word, models.ParseDifficulty(string(w.Difficulty))) {
			n++
		}
	}
	return n
}

func (b *WordBank) add(word string, d models.Difficulty) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	if old, ok := b.seen[word]; ok {
		if old == d {
			return false
		}
		pool := b.words[old]
		for i, w := range pool {
			if w == word {
				b.words[old] = append(pool[:i:i], pool[i+1:]...)
				break
			}
		}
	}
	b.seen[word] = d
	b.words[d] = append(b.words[d], word)
	return true
}

// Pick returns a random word for the learner. The requested difficulty is
// capped by level first.
func (b *WordBank) Pick(requested models.Difficulty, level int) (string, models.Difficulty) {
	d := SpellingDifficulty(requested, level)

	b.mu.RLock()
	pool := b.words[d]
	if len(pool) == 0 {
		pool = b.words[models.DifficultyEasy]
	}
	if len(pool) == 0 {
		b.mu.RUnlock()
		return "", d
	}
	b.rndMu.Lock()
	word := pool[b.rnd.Intn(len(pool))]
	b.rndMu.Unlock()
	b.mu.RUnlock()

	return word, d
}

// Words returns a copy of the words of one difficulty
func (b *WordBank) Words(d models.Difficulty) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.words[d]...)
}

// Len returns the number of distinct words
func (b *WordBank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.seen)
}
