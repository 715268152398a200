package service

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/pkg/entity"
)

const (
	MaxUserNameLen = 20
	MaxPetNameLen  = 15
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("notblank_trimmed", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// ValidateUserName checks the first onboarding step input.
func ValidateUserName(name string) error {
	return validateName(name, "notblank_trimmed,max="+strconv.Itoa(MaxUserNameLen), errorvalues.ErrEmptyUserName)
}

// ValidatePetName checks the second onboarding step input.
func ValidatePetName(name string) error {
	return validateName(name, "notblank_trimmed,max="+strconv.Itoa(MaxPetNameLen), errorvalues.ErrEmptyPetName)
}

func validateName(name, tags string, errEmpty error) error {
	InitValidator()
	err := validate.Var(strings.TrimSpace(name), tags)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		if validationErrors[0].Tag() == "max" {
			return errorvalues.ErrNameTooLong
		}
		return errEmpty
	}
	return errors.New("validation unexpected error: " + err.Error())
}

func ValidateDailyEntry(entry *entity.DailyEntry) error {
	InitValidator()
	err := validate.Struct(entry)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			err = errorvalues.ErrInvalidEntry
			for _, fieldErr := range validationErrors {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}
