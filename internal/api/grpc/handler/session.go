package handler

import (
	"context"

	"github.com/dtroode/gophkeeper-auth/server/proto"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

// SessionService defines refresh token rotation and revocation.
type SessionService interface {
	Rotate(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string)
}

// RefreshToken rotates a refresh token into a new token pair. The presented
// token is consumed whether or not the client receives the response.
func (h *Auth) RefreshToken(ctx context.Context, req *proto.RefreshTokenRequest) (*proto.RefreshTokenResponse, error) {
	pair, err := h.sessions.Rotate(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, h.fail("token refresh", err)
	}

	return &proto.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// RevokeToken revokes a refresh token. It always succeeds so callers learn
// nothing about the token's state.
func (h *Auth) RevokeToken(ctx context.Context, req *proto.RevokeTokenRequest) (*emptypb.Empty, error) {
	h.sessions.Revoke(ctx, req.GetRefreshToken())
	return &emptypb.Empty{}, nil
}
