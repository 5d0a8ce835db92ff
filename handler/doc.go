// Package handler provides typed HTTP handlers and the error boundary that
// turns every request failure into one JSON envelope.
//
// Handlers bind a request struct and return a Response:
//
//	type createPostRequest struct {
//		Title   string `json:"title"`
//		Content string `json:"content"`
//	}
//
//	func createPost(ctx handler.Context, req createPostRequest) handler.Response {
//		post, err := svc.Create(ctx, req)
//		if err != nil {
//			return handler.Fail(err)
//		}
//		return handler.Created("Post created successfully", post)
//	}
//
//	r.Post("/", handler.Wrap(createPost,
//		handler.WithBinder[handler.Context, createPostRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, createPostRequest](errorHandler),
//	))
//
// # Error boundary
//
// NewErrorHandler builds the terminal error handler. It normalizes the
// failure into an *apperror.Error, stamps the correlation id, logs it, and
// writes:
//
//	{"success":false,"statusCode":404,"errors":{"message":"Post not found"},
//	 "operational":true,"correlationId":"..."}
//
// The stack trace is added only in development mode. Messages of
// non-operational errors are replaced by a generic text outside development.
//
// Recoverer, NotFound and MethodNotAllowed route panics and routing misses
// through the same handler, so clients always see the same shape.
package handler
