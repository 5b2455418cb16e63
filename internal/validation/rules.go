package validation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// rule maps failing validator tags (optionally restricted to some fields) to a verdict.
// Rules are checked in order and the first match wins, so the order of a rule list
// decides which message a request with several problems receives.
type rule struct {
	fields []string
	tags   []string
	err    *Error
}

func (r rule) matches(fe validator.FieldError) bool {
	if len(r.fields) > 0 && !slices.Contains(r.fields, fe.StructField()) {
		return false
	}
	return slices.Contains(r.tags, fe.Tag())
}

func verdict(payload any, rules []rule) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", payload, err)
	}

	for _, r := range rules {
		for _, fe := range fieldErrs {
			if r.matches(fe) {
				return r.err
			}
		}
	}
	return fmt.Errorf("unmapped validation failure on %s: %w", fieldErrs[0].StructField(), err)
}
