package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// ErrValidation 字段校验未通过
var ErrValidation = errors.New("validation failed")

func init() {
	validate = validator.New()
}

func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		var errMsgs []string
		for _, e := range verrs {
			errMsgs = append(errMsgs, fmt.Sprintf(
				"Field: %s, Tag: %s, Param: %s", e.Field(), e.Tag(), e.Param(),
			))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errMsgs, "; "))
	}
	return nil
}
