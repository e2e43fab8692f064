package practice

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/kidspeak/pkg/models"
)

// DefaultCategory is used for unknown sentence categories
const DefaultCategory = "general"

// Category describes a topic for repeat-after-me sentences
type Category struct {
	Description string
	Examples    map[models.Difficulty][]string
}

var wordLimits = map[models.Difficulty]string{
	models.DifficultyEasy:   "3 to 5 words",
	models.DifficultyMedium: "6 to 9 words",
	models.DifficultyHard:   "10 to 15 words",
}

var fallbackExamples = []string{"I like to play", "The sun is bright", "We have fun together"}

var categories = map[string]Category{
	"general": {
		Description: "everyday activities, common objects, and simple actions",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"I love ice cream", "The sun is bright", "Mom reads books", "Birds sing songs",
				"We play games", "Rain feels cold", "Trees are tall", "Flowers smell nice"},
			models.DifficultyMedium: {"I brush my teeth every morning", "The blue sky looks very beautiful",
				"My friend helps me with homework", "We watch movies on weekends",
				"The library has many books", "I practice piano after school"},
			models.DifficultyHard: {"My favorite hobby is drawing colorful pictures in my notebook",
				"Every evening I help my mother prepare delicious dinner for the family",
				"During summer vacation we visit interesting places and take lots of photos"},
		},
	},
	"animals": {
		Description: "animals, pets, wildlife, and their behaviors",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"Dogs can bark loudly", "Cats like to sleep", "Birds fly very high",
				"Fish swim in water", "Horses run so fast", "Monkeys climb trees",
				"Rabbits hop around", "Butterflies are pretty"},
			models.DifficultyMedium: {"My rabbit eats fresh carrots daily", "The elephant has a very long trunk",
				"Dolphins are intelligent marine mammals", "Penguins waddle on the ice",
				"The lion is called king of the jungle", "Owls can see in the dark"},
			models.DifficultyHard: {"The playful dolphin jumps high above the sparkling blue ocean waves",
				"Hummingbirds flap their tiny wings incredibly fast while drinking sweet nectar",
				"Baby kangaroos stay safe inside their mother's warm pouch until they grow bigger"},
		},
	},
	"food": {
		Description: "food items, meals, fruits, vegetables, and cooking",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"Pizza tastes really good", "I drink fresh milk", "Apples are so sweet",
				"Cookies are yummy", "Soup is very hot", "Bread smells nice",
				"Oranges are juicy", "Rice is white"},
			models.DifficultyMedium: {"I eat healthy vegetables every single day", "My mom makes delicious chocolate cookies",
				"Fresh fruit salad contains vitamins and minerals", "We bake birthday cakes together",
				"Breakfast is the most important meal", "I prefer grilled chicken over fried"},
			models.DifficultyHard: {"For breakfast I enjoy eating scrambled eggs with crispy golden toast",
				"My grandmother's homemade lasagna recipe has been passed down through generations",
				"A balanced diet includes proteins vegetables fruits grains and dairy products daily"},
		},
	},
	"sports": {
		Description: "sports, games, physical activities, and exercise",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"I can run fast", "Soccer is so fun", "We play basketball well",
				"Swimming is cool", "I kick the ball", "Tennis needs a racket",
				"Cycling is healthy", "Dancing makes me happy"},
			models.DifficultyMedium: {"My sister swims in the pool today", "I practice tennis with my best friend",
				"Basketball requires teamwork and coordination", "Running marathons needs lots of training",
				"Gymnastics helps improve flexibility and balance", "Cricket is popular in many countries"},
			models.DifficultyHard: {"Every morning I ride my bicycle to the park with my friends",
				"Professional athletes train rigorously for many hours every single day of the week",
				"Playing team sports teaches important life skills like cooperation communication and leadership"},
		},
	},
	"feelings": {
		Description: "emotions, feelings, moods, and personal expressions",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"I feel very happy", "She looks quite sad", "We are so excited",
				"He seems angry", "They feel scared", "I am so proud",
				"She is very calm", "We feel grateful"},
			models.DifficultyMedium: {"My brother feels proud of his work", "I am really nervous about the test",
				"Everyone felt disappointed when it rained", "Kindness makes people feel appreciated",
				"I was surprised by the unexpected gift", "She remained confident during the competition"},
			models.DifficultyHard: {"When my friends visit me I always feel extremely happy and joyful",
				"Understanding and managing our emotions effectively helps us maintain healthy relationships",
				"Sometimes feeling sad or disappointed is completely normal and helps us grow stronger"},
		},
	},
	"colors": {
		Description: "colors, shapes, sizes, and visual descriptions",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"The car is red", "I see yellow flowers", "Her dress looks blue",
				"Grass is green", "Snow is white", "The night is dark",
				"Carrots are orange", "Grapes are purple"},
			models.DifficultyMedium: {"The rainbow has many beautiful bright colors", "My new backpack is dark purple color",
				"Autumn leaves turn golden yellow and orange", "The sunset painted the sky pink",
				"Different shades of blue represent various moods", "Artists mix colors to create new ones"},
			models.DifficultyHard: {"The gigantic orange pumpkin sits in our garden looking absolutely magnificent",
				"Fashion designers carefully select complementary colors to create stunning visual combinations",
				"Understanding color theory helps artists painters and designers create more appealing artwork"},
		},
	},
	"family": {
		Description: "family members, relatives, friends, and relationships",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"Dad helps me learn", "I love my sister", "Grandma tells great stories",
				"Mom cooks dinner", "My brother is funny", "Uncle visits often",
				"Aunt is kind", "Cousins play together"},
			models.DifficultyMedium: {"My cousin visits us every summer vacation", "Uncle Tom teaches me how to swim",
				"Grandparents share wisdom from their experiences", "Family traditions bring everyone closer together",
				"Siblings sometimes argue but always make up", "Extended family gatherings are always fun"},
			models.DifficultyHard: {"On weekends my whole family enjoys eating dinner together at the table",
				"Family bonds grow stronger when we spend quality time communicating and supporting each other",
				"Multi-generational households allow grandparents parents and children to learn from one another"},
		},
	},
	"school": {
		Description: "school activities, learning, education, and classroom experiences",
		Examples: map[models.Difficulty][]string{
			models.DifficultyEasy: {"I like my teacher", "Math class is fun", "We learn new things",
				"Books are helpful", "Friends are nice", "Lunch is tasty",
				"Science is interesting", "Art is creative"},
			models.DifficultyMedium: {"My favorite subject in school is science", "I always do my homework after school",
				"Teachers help students understand difficult concepts", "Group projects teach collaboration skills",
				"Libraries provide resources for research", "Physical education keeps students active"},
			models.DifficultyHard: {"During art class we create beautiful paintings using watercolors and special brushes",
				"Effective study habits include regular practice active participation and asking questions when confused",
				"Modern classrooms use technology like computers tablets and interactive whiteboards to enhance learning"},
		},
	},
}

// Categories returns the known category names, sorted
func Categories() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupCategory returns the named category, falling back to general
func LookupCategory(name string) (string, Category) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := categories[name]; ok {
		return name, c
	}
	return DefaultCategory, categories[DefaultCategory]
}

// WordLimit is the sentence length instruction for a difficulty
func WordLimit(d models.Difficulty) string {
	if limit, ok := wordLimits[d]; ok {
		return limit
	}
	return wordLimits[models.DifficultyEasy]
}

// SentenceRequest describes the sentence a generator should produce
type SentenceRequest struct {
	Category    string
	Description string
	Difficulty  models.Difficulty
	WordLimit   string
	Level       int
	Examples    []string // Exactly three
}

// NewSentenceRequest picks the effective difficulty for the learner and
// three example sentences from the category.
func NewSentenceRequest(category string, requested models.Difficulty, level int, rnd *rand.Rand) SentenceRequest {
	name, c := LookupCategory(category)
	difficulty := RepeatDifficulty(requested, level)

	examples := append([]string(nil), c.Examples[difficulty]...)
	if len(examples) == 0 {
		examples = append(examples, c.Examples[models.DifficultyEasy]...)
	}
	if len(examples) > 3 {
		rnd.Shuffle(len(examples), func(i, j int) {
			examples[i], examples[j] = examples[j], examples[i]
		})
		examples = examples[:3]
	}
	if len(examples) < 3 {
		examples = append([]string(nil), fallbackExamples...)
	}

	return SentenceRequest{
		Category:    name,
		Description: c.Description,
		Difficulty:  difficulty,
		WordLimit:   WordLimit(difficulty),
		Level:       level,
		Examples:    examples,
	}
}

// FallbackSentence returns a built-in example for when generation fails
func FallbackSentence(req SentenceRequest, rnd *rand.Rand) string {
	if len(req.Examples) == 0 {
		return fallbackExamples[rnd.Intn(len(fallbackExamples))]
	}
	return req.Examples[rnd.Intn(len(req.Examples))]
}

var (
	edgeQuotes    = regexp.MustCompile(`^["']+|["']+$`)
	trailingPunct = regexp.MustCompile(`[.!?;:,]+$`)
)

// CleanSentence strips surrounding quotes and trailing punctuation from a
// generated sentence and capitalizes its first letter.
func CleanSentence(s string) string {
	s = strings.TrimSpace(s)
	s = edgeQuotes.ReplaceAllString(s, "")
	s = trailingPunct.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// StripQuotes removes surrounding quotes only, for usage sentences
func StripQuotes(s string) string {
	return edgeQuotes.ReplaceAllString(strings.TrimSpace(s), "")
}
