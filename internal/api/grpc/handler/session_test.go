package handler

import (
	"context"
	"testing"

	authProto "github.com/dtroode/gophkeeper-auth/server/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/gophkeeper-sessions/internal/mocks"
	"github.com/dtroode/gophkeeper-sessions/internal/model"
	"github.com/dtroode/gophkeeper-sessions/internal/testutil"
)

func TestAuth_RefreshToken_Success(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	tokens := mocks.NewSessionService(t)
	lg := testutil.MakeNoopLogger()

	tokens.On("Rotate", mock.Anything, "r").Return(model.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil)

	h := NewAuth(svc, tokens, lg)
	out, err := h.RefreshToken(context.Background(), &authProto.RefreshTokenRequest{RefreshToken: "r"})
	assert.NoError(t, err)
	assert.Equal(t, "acc", out.AccessToken)
	assert.Equal(t, "ref", out.RefreshToken)
}

func TestAuth_RefreshToken_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
	}{
		{name: "reused", err: model.ErrTokenReused, wantCode: codes.Unauthenticated},
		{name: "invalid", err: model.ErrInvalidToken, wantCode: codes.Unauthenticated},
		{name: "expired", err: model.ErrTokenExpired, wantCode: codes.Unauthenticated},
		{name: "store down", err: model.ErrStoreUnavailable, wantCode: codes.Unavailable},
		{name: "unexpected", err: assert.AnError, wantCode: codes.Internal},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			tokens := mocks.NewSessionService(t)
			tokens.On("Rotate", mock.Anything, "x").Return(model.TokenPair{}, tt.err)

			h := NewAuth(svc, tokens, testutil.MakeNoopLogger())
			out, err := h.RefreshToken(context.Background(), &authProto.RefreshTokenRequest{RefreshToken: "x"})
			assert.Nil(t, out)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestAuth_RevokeToken_AlwaysSucceeds(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"r", ""} {
		svc := mocks.NewAuthService(t)
		tokens := mocks.NewSessionService(t)
		tokens.On("Revoke", mock.Anything, tok).Return().Once()

		h := NewAuth(svc, tokens, testutil.MakeNoopLogger())
		out, err := h.RevokeToken(context.Background(), &authProto.RevokeTokenRequest{RefreshToken: tok})
		assert.NoError(t, err)
		assert.NotNil(t, out)
	}
}
