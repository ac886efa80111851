package handler

import (
	"errors"

	apiErrors "github.com/dtroode/gophkeeper-api/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

// sessionFailures are reported to clients by name only.
var sessionFailures = []error{
	model.ErrInvalidToken,
	model.ErrTokenNotFound,
	model.ErrTokenReused,
	model.ErrTokenExpired,
}

func handleError(err error) error {
	var apiErr *apiErrors.APIError
	if errors.As(err, &apiErr) {
		return status.Error(apiErr.GRPCCode, apiErr.Message)
	}

	for _, target := range sessionFailures {
		if errors.Is(err, target) {
			return status.Error(codes.Unauthenticated, target.Error())
		}
	}

	switch {
	case model.IsRetryable(err):
		return status.Error(codes.Unavailable, "service temporarily unavailable")
	case errors.Is(err, model.ErrHandshakeMismatch):
		return status.Error(codes.Unauthenticated, "handshake does not belong to login")
	case errors.Is(err, model.ErrInvalidPrincipal):
		return status.Error(codes.PermissionDenied, "account cannot start a session")
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
