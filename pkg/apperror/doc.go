// Package apperror defines the single error representation that crosses the
// HTTP and process boundaries of the service.
//
// Every failure value, whether it is an *Error built by application code, a
// plain Go error, a recovered panic value or anything else, is converted into
// exactly one *Error by Normalize before it is logged or written to a client.
//
// # Operational vs non-operational
//
// Operational errors are expected conditions (bad input, missing resources)
// that are safe to report to the caller with a specific status code. They are
// built only through the constructors in this package (New, NotFound,
// Validation, ...), which always set Operational to true.
//
// Anything else is non-operational: Normalize wraps it as a 500 with
// Operational set to false. The fault monitor treats non-operational faults
// that escape request handling as a reason to drain and stop the process.
//
// # Usage
//
//	post, err := store.GetByID(ctx, id)
//	if pg.IsNotFoundError(err) {
//		return apperror.NotFound("Post not found")
//	}
//
//	appErr := apperror.Normalize(recovered)
//	if !appErr.Operational {
//		// defect: log with stack, maybe shut down
//	}
package apperror
