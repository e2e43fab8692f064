// Package roster manages account signup and the educator class board.
package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/kidspeak/pkg/models"
)

// LearnerDirectory creates and lists learner profiles
type LearnerDirectory interface {
	CreateLearner(ctx context.Context, p *models.LearnerProfile) error
	Learners() []*models.LearnerProfile
}

// EducatorGateway is the durable store for educator accounts
type EducatorGateway interface {
	LoadAll(ctx context.Context) (map[string]*models.EducatorRecord, error)
	SaveAll(ctx context.Context, educators map[string]*models.EducatorRecord) error
}

// Roster registers learners and educators
type Roster struct {
	learners LearnerDirectory
	gateway  EducatorGateway
	validate *validator.Validate
	logger   *slog.Logger
	hashCost int
	now      func() time.Time

	mu        sync.RWMutex
	educators map[string]*models.EducatorRecord

	saveMu sync.Mutex
}

// Option configures a Roster
type Option func(*Roster)

// WithHashCost sets the bcrypt cost
func WithHashCost(cost int) Option {
	return func(r *Roster) {
		r.hashCost = cost
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Roster) {
		r.logger = logger
	}
}

// New creates a roster. gateway may be nil to keep educators in memory.
func New(learners LearnerDirectory, gateway EducatorGateway, opts ...Option) *Roster {
	r := &Roster{
		learners:  learners,
		gateway:   gateway,
		validate:  validator.New(),
		logger:    slog.Default(),
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
		educators: make(map[string]*models.EducatorRecord),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load reads educator accounts from the gateway
func (r *Roster) Load(ctx context.Context) error {
	if r.gateway == nil {
		return nil
	}
	educators, err := r.gateway.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load educators: %v", err)
	}
	r.mu.Lock()
	r.educators = educators
	r.mu.Unlock()
	return nil
}

// SignUpLearner validates the form and creates a learner at level 1.
func (r *Roster) SignUpLearner(ctx context.Context, form LearnerSignup) (*models.LearnerProfile, error) {
	if err := r.validate.Struct(form); err != nil {
		return nil, validationError(err, ErrInvalidLearnerID)
	}

	hash, err := r.hash(form.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.LearnerProfile{
		ID:           form.ID,
		PasswordHash: hash,
		Name:         form.Name,
		Class:        form.Class,
		Division:     form.Division,
	}
	if err := r.learners.CreateLearner(ctx, profile); err != nil {
		return nil, err
	}

	r.logger.Info("learner signed up", "learner_id", form.ID, "class", form.Class, "division", form.Division)
	return profile, nil
}

// SignUpEducator validates the form and registers a teacher account.
func (r *Roster) SignUpEducator(ctx context.Context, form EducatorSignup) (*models.EducatorRecord, error) {
	if err := r.validate.Struct(form); err != nil {
		return nil, validationError(err, ErrInvalidCredentials)
	}

	hash, err := r.hash(form.Password)
	if err != nil {
		return nil, err
	}

	record := &models.EducatorRecord{
		ID:           form.Username,
		PasswordHash: hash,
		Name:         form.Name,
		Role:         "teacher",
		CreatedAt:    r.now(),
	}

	r.mu.Lock()
	if _, exists := r.educators[record.ID]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrEducatorExists, record.ID)
	}
	r.educators[record.ID] = record
	r.mu.Unlock()

	r.persist(ctx)
	r.logger.Info("educator signed up", "username", record.ID)

	c := *record
	return &c, nil
}

// Educator returns a copy of the educator record
func (r *Roster) Educator(username string) (*models.EducatorRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.educators[username]
	if !ok {
		return nil, false
	}
	c := *e
	return &c, true
}

// ClassBoard builds the class board from the current learners
func (r *Roster) ClassBoard() Board {
	return BuildBoard(r.learners.Learners())
}

func (r *Roster) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(hash), nil
}

func (r *Roster) persist(ctx context.Context) {
	if r.gateway == nil {
		return
	}
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.RLock()
	snapshot := make(map[string]*models.EducatorRecord, len(r.educators))
	for id, e := range r.educators {
		c := *e
		snapshot[id] = &c
	}
	r.mu.RUnlock()

	if err := r.gateway.SaveAll(ctx, snapshot); err != nil {
		r.logger.Error("failed to save educators", "error", err)
	}
}

// BoardEntry is one learner row on the class board
type BoardEntry struct {
	LearnerID  string    `json:"user_id"`
	Name       string    `json:"name"`
	Level      int       `json:"level"`
	TotalXP    int       `json:"total_xp"`
	TotalStars int       `json:"total_stars"`
	LastActive time.Time `json:"last_active"`
	Class      string    `json:"class"`
	Division   string    `json:"division"`
}

// ClassGroup is one class and its learners, best first
type ClassGroup struct {
	Name     string       `json:"name"`
	Students []BoardEntry `json:"students"`
}

// Board is the educator overview of every class
type Board struct {
	Classes       []ClassGroup `json:"classes"`
	TotalStudents int          `json:"total_students"`
	TotalClasses  int          `json:"total_classes"`
	TotalStars    int          `json:"total_stars"`
}

// BuildBoard groups learners by "Class {class}{division}" and orders each
// class by points, highest first. Ties keep the input order.
func BuildBoard(learners []*models.LearnerProfile) Board {
	groups := make(map[string]*ClassGroup)
	var board Board

	for _, p := range learners {
		name := fmt.Sprintf("Class %s%s", p.Class, p.Division)
		g, ok := groups[name]
		if !ok {
			g = &ClassGroup{Name: name}
			groups[name] = g
		}
		g.Students = append(g.Students, BoardEntry{
			LearnerID:  p.ID,
			Name:       p.Name,
			Level:      p.Level,
			TotalXP:    p.TotalXP,
			TotalStars: p.TotalStars,
			LastActive: p.LastActive,
			Class:      p.Class,
			Division:   p.Division,
		})
		board.TotalStudents++
		board.TotalStars += p.TotalStars
	}

	board.Classes = make([]ClassGroup, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Students, func(i, j int) bool {
			return g.Students[i].TotalXP > g.Students[j].TotalXP
		})
		board.Classes = append(board.Classes, *g)
	}
	sort.Slice(board.Classes, func(i, j int) bool { return board.Classes[i].Name < board.Classes[j].Name })
	board.TotalClasses = len(board.Classes)
	return board
}
