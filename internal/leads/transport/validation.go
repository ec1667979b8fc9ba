package transport

import (
	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// RegisterValidations installs the enum tags used by the request DTOs.
func RegisterValidations(val *validator.Validator) error {
	tags := map[string]func(string) bool{
		"tristate": func(s string) bool {
			_, ok := domain.ParseTriState(s)
			return ok
		},
		"stage": func(s string) bool {
			_, ok := domain.ParseStage(s)
			return ok
		},
		"activitytype": func(s string) bool {
			_, ok := domain.ParseActivityType(s)
			return ok
		},
		"activityresult": func(s string) bool {
			_, ok := domain.ParseActivityResult(s)
			return ok
		},
	}

	for tag, valid := range tags {
		valid := valid
		if err := val.RegisterValidation(tag, func(fl playground.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}
