// Package environment names the deployment environment the process runs in
// and carries it through request contexts.
//
// The environment decides how much the error boundary reveals to clients:
// only Development exposes stack traces and raw messages of programmer
// errors.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
package environment
