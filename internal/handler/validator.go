package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("game", validateGame)
	_ = v.RegisterValidation("wager_action", validateAction)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// This prevents leaking internal struct names and provides cleaner error messages
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "uuid":
			errs[field] = "Must be a valid session ID"
		case "game":
			errs[field] = ErrMsgUnknownGameError
		case "wager_action":
			errs[field] = ErrMsgUnknownActionError
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "ne":
			errs[field] = fmt.Sprintf("Must not equal %s", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// ValidGames defines the playable wager games
var ValidGames = map[domain.GameKind]bool{
	domain.GameChinchiro: true,
	domain.GameSlots:     true,
	domain.GameBlackjack: true,
}

// ValidActions defines the accepted session actions
var ValidActions = map[domain.SessionAction]bool{
	domain.ActionConfirm: true,
	domain.ActionCancel:  true,
	domain.ActionHit:     true,
	domain.ActionStand:   true,
	domain.ActionDouble:  true,
	domain.ActionReplay:  true,
}

func validateGame(fl validator.FieldLevel) bool {
	return ValidGames[domain.GameKind(strings.ToLower(fl.Field().String()))]
}

func validateAction(fl validator.FieldLevel) bool {
	return ValidActions[domain.SessionAction(strings.ToLower(fl.Field().String()))]
}
