package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Normalize converts any failure value into exactly one *Error.
//
//   - an *Error is returned unchanged;
//   - an error wrapping an *Error yields the wrapped *Error;
//   - any other error becomes a non-operational 500 with the error's message;
//   - any other value (nil, strings, numbers, structs, panic values) becomes
//     a non-operational 500 whose message names the value's type and renders
//     the value itself.
//
// Normalize has no side effects and is idempotent.
func Normalize(v any) *Error {
	switch val := v.(type) {
	case *Error:
		if val != nil {
			return val
		}
	case error:
		var appErr *Error
		if errors.As(val, &appErr) && appErr != nil {
			return appErr
		}
		return &Error{
			StatusCode:  http.StatusInternalServerError,
			Operational: false,
			Message:     val.Error(),
			Stack:       callers(1),
			Cause:       val,
		}
	}

	return &Error{
		StatusCode:  http.StatusInternalServerError,
		Operational: false,
		Message:     fmt.Sprintf("non-error value of type %T: %#v", v, v),
		Stack:       callers(1),
	}
}
