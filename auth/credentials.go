package auth

import (
	"github.com/gcalio/gcal"
)

// Credentials holds the OAuth2 client configuration used to mint access
// tokens. It is read-only after construction and is never itself sent as a
// bearer token.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	RefreshToken string
}

// Validate checks that every field required for a token refresh is present.
func (c Credentials) Validate() error {
	switch {
	case c.ClientID == "":
		return gcal.NewValidationError("credentials: client ID is required")
	case c.ClientSecret == "":
		return gcal.NewValidationError("credentials: client secret is required")
	case len(c.Scopes) == 0:
		return gcal.NewValidationError("credentials: at least one scope is required")
	case c.RefreshToken == "":
		return gcal.NewValidationError("credentials: refresh token is required")
	}
	return nil
}
