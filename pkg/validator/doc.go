// Package validator provides small declarative validation rules for request
// payloads.
//
// Each exported rule function returns a Rule that pairs a Check func with the
// ValidationError reported when the check fails. Apply evaluates rules and
// aggregates failures into ValidationErrors, which implements error so it can
// be returned directly and later converted into field-level error details by
// apperror.FromValidation.
//
// # Usage
//
//	err := validator.Apply(
//		validator.Required("name", req.Name),
//		validator.MaxLen("name", req.Name, 120),
//		validator.ValidEmail("email", req.Email),
//	)
//	if err != nil {
//		return apperror.FromValidation(err, "body")
//	}
package validator
