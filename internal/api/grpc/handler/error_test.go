package handler

import (
	"errors"
	"fmt"
	"testing"

	apiErrors "github.com/dtroode/gophkeeper-api/errors"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "api error passthrough",
			in:       apiErrors.NewErrEmailIsTaken("a@b.c"),
			wantCode: apiErrors.NewErrEmailIsTaken("a@b.c").GRPCCode,
			wantMsg:  apiErrors.NewErrEmailIsTaken("a@b.c").Message,
		},
		{
			name:     "invalid token",
			in:       model.ErrInvalidToken,
			wantCode: codes.Unauthenticated,
			wantMsg:  model.ErrInvalidToken.Error(),
		},
		{
			name:     "token not found",
			in:       model.ErrTokenNotFound,
			wantCode: codes.Unauthenticated,
			wantMsg:  model.ErrTokenNotFound.Error(),
		},
		{
			name:     "token reused",
			in:       model.ErrTokenReused,
			wantCode: codes.Unauthenticated,
			wantMsg:  model.ErrTokenReused.Error(),
		},
		{
			name:     "token expired",
			in:       model.ErrTokenExpired,
			wantCode: codes.Unauthenticated,
			wantMsg:  model.ErrTokenExpired.Error(),
		},
		{
			name:     "handshake mismatch",
			in:       fmt.Errorf("complete login: %w", model.ErrHandshakeMismatch),
			wantCode: codes.Unauthenticated,
			wantMsg:  "handshake does not belong to login",
		},
		{
			name:     "store unavailable hides cause",
			in:       fmt.Errorf("%w: %v", model.ErrStoreUnavailable, errors.New("dial tcp 10.0.0.5:5432")),
			wantCode: codes.Unavailable,
			wantMsg:  "service temporarily unavailable",
		},
		{
			name:     "persistence failed",
			in:       fmt.Errorf("failed to issue session: %w", model.ErrPersistenceFailed),
			wantCode: codes.Unavailable,
			wantMsg:  "service temporarily unavailable",
		},
		{
			name:     "model not found -> NotFound",
			in:       fmt.Errorf("failed to get pending login: %w", model.ErrNotFound),
			wantCode: codes.NotFound,
			wantMsg:  "not found",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
