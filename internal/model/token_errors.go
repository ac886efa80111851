package model

import "errors"

// Session lifecycle outcomes. Authorization failures are decided by the
// session service; infrastructure failures wrap ErrStoreUnavailable or
// ErrPersistenceFailed so transports can tell them apart with errors.Is.
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenNotFound     = errors.New("refresh token not found")
	ErrTokenReused       = errors.New("refresh token reused")
	ErrTokenExpired      = errors.New("refresh token expired")
	ErrPersistenceFailed = errors.New("refresh token persistence failed")
	ErrStoreUnavailable  = errors.New("token store unavailable")
	ErrInvalidPrincipal  = errors.New("invalid principal")
)

// Store level signals used between the session service and its stores.
var (
	// ErrTokenAlreadyRevoked is returned by RefreshTokenStore.Rotate when the
	// presented record was revoked by someone else first.
	ErrTokenAlreadyRevoked = errors.New("refresh token already revoked")
	// ErrCacheMiss is returned by TokenCache.Get when the key is absent for any reason.
	ErrCacheMiss = errors.New("cache miss")
)

// IsAuthFailure reports whether err is one of the authorization outcomes of
// a refresh token check.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenNotFound) ||
		errors.Is(err, ErrTokenReused) ||
		errors.Is(err, ErrTokenExpired)
}

// IsRetryable reports whether err is an infrastructure failure the caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrPersistenceFailed)
}
