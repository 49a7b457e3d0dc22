package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// NewValidator returns a validator with the routine-specific tags registered:
// "clock" accepts 24h "HH:MM", "slot" accepts "HH:MM - HH:MM" with start before
// end and "weekday" accepts a full or 3-letter day name.
func NewValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, ok := models.ClockMinutes(fl.Field().String())
		return ok
	})
	_ = validate.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		_, _, ok := models.ParseSlotString(fl.Field().String())
		return ok
	})
	_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.NormalizeDay(fl.Field().String()) != ""
	})
	return validate
}
