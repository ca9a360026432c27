package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func atLeastOneMessage() string {
	return fmt.Sprintf(`"value" must contain at least one of [%s]`, strings.Join(bookKeys, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	key := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", key)
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return fmt.Sprintf("%q is not allowed to be empty", key)
			}
			return fmt.Sprintf("%q length must be at least %s characters long", key, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", key, fe.Param())
	case tagNotFuture:
		return fmt.Sprintf("%q must be less than or equal to %d", key, now().Year())
	default:
		return fmt.Sprintf("%q failed on the %q rule", key, fe.Tag())
	}
}
