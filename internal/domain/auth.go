package domain

import "errors"

var (
	ErrInvalidToken       = errors.New("token is invalid")
	ErrExpiredToken       = errors.New("token has expired")
	ErrWrongTokenType     = errors.New("wrong token type")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("missing permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type TokenType string

const (
	TokenAccess        TokenType = "access"
	TokenRefresh       TokenType = "refresh"
	TokenEmailVerify   TokenType = "email_verify"
	TokenEmailChange   TokenType = "email_change"
	TokenPasswordReset TokenType = "password_reset"
)

func (t TokenType) Valid() bool {
	switch t {
	case TokenAccess, TokenRefresh, TokenEmailVerify, TokenEmailChange, TokenPasswordReset:
		return true
	}
	return false
}

// IssuedToken is a signed token together with the lifetime it was minted with.
type IssuedToken struct {
	Token string
	TTL   int64 // seconds
}

// TokenPair is what a successful sign-in hands back to the client.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
