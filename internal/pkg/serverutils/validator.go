package serverutils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/modernreader/orchestrator/internal/apierr"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and translates the first
// failing field into an invalid_argument apierr.Error, so controllers never
// construct validation messages by hand.
func ValidateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return apierr.Invalid("request failed validation")
		}
		fe := verrs[0]
		return apierr.Invalid(strings.ToLower(fe.Field()) + " " + describeTag(fe.Tag()))
	}
	return nil
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "is below the minimum"
	case "max":
		return "is above the maximum"
	case "gte":
		return "must be greater than or equal to the minimum"
	case "lte":
		return "must be less than or equal to the maximum"
	default:
		return "is invalid (" + tag + ")"
	}
}
