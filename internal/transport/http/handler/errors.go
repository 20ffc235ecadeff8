package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer     = "Internal server error"
	errUnauthorized       = "Unauthorized"
	errInvalidToken       = "Token is invalid"
	errExpiredToken       = "Token has expired"
	errWrongTokenType     = "Wrong token type"
	errInvalidCredentials = "Invalid email or password"
	errForbidden          = "Missing permissions"
	errUserNotFound       = "User not found"
	errNotFound           = "Not found"
	errAlreadyVerified    = "User is already verified"
	errEmailTaken         = "Email address is already taken"
	errSameEmail          = "New email matches the current one"
	errPostExists         = "A post already exists for this category"
	errMissingArguments   = "Missing arguments"
	errInvalidID          = "Invalid id"
)

// errorStatuses is checked in order; the first match wins. Token errors come
// before ErrUnauthorized because the gate wraps them together.
var errorStatuses = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrExpiredToken, http.StatusUnauthorized, errExpiredToken},
	{domain.ErrWrongTokenType, http.StatusUnauthorized, errWrongTokenType},
	{domain.ErrInvalidToken, http.StatusUnauthorized, errInvalidToken},
	{domain.ErrUnauthorized, http.StatusUnauthorized, errUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, errInvalidCredentials},
	{domain.ErrForbidden, http.StatusForbidden, errForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound, errUserNotFound},
	{domain.ErrNotFound, http.StatusNotFound, errNotFound},
	{domain.ErrAlreadyVerified, http.StatusConflict, errAlreadyVerified},
	{domain.ErrEmailTaken, http.StatusConflict, errEmailTaken},
	{domain.ErrPostExists, http.StatusConflict, errPostExists},
	{domain.ErrSameEmail, http.StatusBadRequest, errSameEmail},
	{domain.ErrMissingArguments, http.StatusBadRequest, errMissingArguments},
}

// respondError maps domain errors to their status. Anything unknown is
// logged and hidden behind a 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.msg})
			return
		}
	}
	logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
