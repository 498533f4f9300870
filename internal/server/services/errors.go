// Package services contains the server-side auth flows: credential
// validation, subject re-checks, refresh rotation, sign-up/sign-in and
// profile updates. Every error returned to callers is a *common.Error whose
// kind decides the transport status.
package services

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

var (
	ErrInvalidCredentials  = common.Unauthorized("invalid email or password")
	ErrInvalidRefreshToken = common.Unauthorized("invalid or expired refresh token")
	ErrUserNotFound        = common.Unauthorized("user not found")
	ErrNoRefreshCookie     = common.Unauthorized("no refresh token found")
	ErrEmailTaken          = common.Conflict("user with this email already exists")
	ErrTooManyAttempts     = &common.Error{Kind: common.ErrorRateLimited, Message: "too many sign-in attempts, try again later"}
	ErrInternal            = &common.Error{Kind: common.ErrorInternal, Message: "internal server error"}
)

func validationError(msg string) error {
	return &common.Error{Kind: common.ErrorValidation, Message: msg}
}

// internal logs the collaborator failure and hides it behind ErrInternal.
func internal(ctx context.Context, log logging.Logger, op string, err error) error {
	log.Error(ctx, op+" failed", "error", err)
	return ErrInternal
}
