package roster

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/example/kidspeak/internal/progression"
)

// Signup errors. All of them match progression.ErrMalformedInput.
var (
	ErrMissingFields      = fmt.Errorf("%w: please fill in all fields", progression.ErrMalformedInput)
	ErrInvalidLearnerID   = fmt.Errorf("%w: user id must be exactly 3 digits", progression.ErrMalformedInput)
	ErrInvalidCredentials = fmt.Errorf("%w: username and password must be exactly 6 characters each", progression.ErrMalformedInput)
	ErrPasswordTooLong    = fmt.Errorf("%w: password is too long", progression.ErrMalformedInput)
)

// ErrEducatorExists is returned when the username is taken
var ErrEducatorExists = errors.New("educator already exists")

// LearnerSignup is the student signup form
type LearnerSignup struct {
	ID       string `json:"user_id" validate:"required,len=3,number"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required"`
	Class    string `json:"class" validate:"required"`
	Division string `json:"division" validate:"required"`
}

// EducatorSignup is the teacher signup form
type EducatorSignup struct {
	Username string `json:"username" validate:"required,len=6"`
	Password string `json:"password" validate:"required,len=6"`
	Name     string `json:"name" validate:"required"`
}

// validationError turns validator output into one of the signup errors.
// Missing fields are reported before format problems.
func validationError(err error, formatErr error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", progression.ErrMalformedInput, err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}
	for _, fe := range verrs {
		if fe.Field() == "Password" && fe.Tag() == "max" {
			return ErrPasswordTooLong
		}
	}
	return formatErr
}
