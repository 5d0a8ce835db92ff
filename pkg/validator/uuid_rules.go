package validator

import "github.com/google/uuid"

// ValidUUID validates the canonical 36-character UUID form.
func ValidUUID(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if len(value) != 36 {
				return false
			}
			_, err := uuid.Parse(value)
			return err == nil
		},
		Error: ValidationError{Field: field, Message: "must be a valid UUID"},
	}
}
