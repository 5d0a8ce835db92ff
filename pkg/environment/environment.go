package environment

import "strings"

// Environment represents application environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Staging     Environment = "staging"
	Test        Environment = "test"
)

// Parse normalizes common spellings ("dev", "prod", "stage") of an
// environment name. Unknown and empty values resolve to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "test", "testing":
		return Test
	default:
		return Development
	}
}

// IsDevelopment reports whether diagnostic details such as stack traces may
// be exposed to clients.
func (e Environment) IsDevelopment() bool {
	return e == Development
}

func (e Environment) String() string {
	return string(e)
}
