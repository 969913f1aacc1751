package studyplan

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyplanner/core"
)

var (
	weekdayTag  = "weekday"
	weekdayText = "invalid day of week, use monday to friday"
)

// InitValidators registers the study plan validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(validate, translator, weekdayTag, weekdayText)
}

// weekdayValidation only allows Weekdays values.
func weekdayValidation(fl validator.FieldLevel) bool {
	return Weekday(fl.Field().String()).IsValid()
}
