package account

import "errors"

// ErrInvalidCredentials is returned by Login when no stored credential
// matches.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential is a stored username and password. Passwords are kept as
// entered and usernames are not unique.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
