package handler

import (
	"context"

	"github.com/dtroode/gophkeeper-auth/model"
	"github.com/dtroode/gophkeeper-auth/server/proto"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/gophkeeper-sessions/internal/logger"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	GetRegParams(ctx context.Context, login string) (model.RegParams, error)
	CompleteReg(ctx context.Context, params model.RegComplete) error
	GetLoginParams(ctx context.Context, params model.LoginStart) (model.LoginParams, error)
	CompleteLogin(ctx context.Context, params model.LoginComplete) (model.SessionResult, error)
}

// Auth serves the Auth gRPC service: SCRAM handshakes here, token
// rotation and revocation in session.go.
type Auth struct {
	proto.UnimplementedAuthServer
	authService AuthService
	sessions    SessionService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, sessions SessionService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// GetRegParams starts registration and returns server KDF and salt parameters.
func (h *Auth) GetRegParams(ctx context.Context, req *proto.RegStart) (*proto.RegParams, error) {
	params, err := h.authService.GetRegParams(ctx, req.GetLogin())
	if err != nil {
		return nil, h.fail("registration start", err, "login", req.GetLogin())
	}

	return &proto.RegParams{
		KdfParams: kdfToProto(params.KDFParams),
		SaltRoot:  params.SaltRoot,
		SessionId: params.SessionID,
	}, nil
}

// CompleteReg finishes registration with verifiers.
func (h *Auth) CompleteReg(ctx context.Context, req *proto.RegComplete) (*emptypb.Empty, error) {
	err := h.authService.CompleteReg(ctx, model.RegComplete{
		SessionID: req.GetSessionId(),
		Login:     req.GetLogin(),
		SaltRoot:  req.GetSaltRoot(),
		KDF:       kdfFromProto(req.GetKdfParams()),
		StoredKey: req.GetStoredKey(),
		ServerKey: req.GetServerKey(),
	})
	if err != nil {
		return nil, h.fail("registration finish", err, "login", req.GetLogin(), "session_id", req.GetSessionId())
	}

	return &emptypb.Empty{}, nil
}

// GetLoginParams starts login and returns server nonce and KDF params.
func (h *Auth) GetLoginParams(ctx context.Context, req *proto.LoginStart) (*proto.LoginParams, error) {
	params, err := h.authService.GetLoginParams(ctx, model.LoginStart{
		Login:       req.GetLogin(),
		ClientNonce: req.GetClientNonce(),
	})
	if err != nil {
		return nil, h.fail("login start", err, "login", req.GetLogin())
	}

	return &proto.LoginParams{
		KdfParams:   kdfToProto(params.KDFParams),
		SaltRoot:    params.SaltRoot,
		ServerNonce: params.ServerNonce,
		SessionId:   params.SessionID,
	}, nil
}

// CompleteLogin verifies client proof and returns a fresh session.
func (h *Auth) CompleteLogin(ctx context.Context, req *proto.LoginComplete) (*proto.SessionResult, error) {
	result, err := h.authService.CompleteLogin(ctx, model.LoginComplete{
		SessionID:   req.GetSessionId(),
		Login:       req.GetLogin(),
		ClientNonce: req.GetClientNonce(),
		ServerNonce: req.GetServerNonce(),
		ClientProof: req.GetClientProof(),
	})
	if err != nil {
		return nil, h.fail("login finish", err, "login", req.GetLogin(), "session_id", req.GetSessionId())
	}

	return &proto.SessionResult{
		ServerSignature: result.ServerSignature,
		AccessToken:     result.AccessToken,
		RefreshToken:    result.RefreshToken,
	}, nil
}

// fail logs err with the request attributes and converts it to a status.
func (h *Auth) fail(op string, err error, args ...any) error {
	st := handleError(err)
	h.logger.Info("Auth handler: "+op+" failed", append(args, "error", err.Error())...)
	return st
}

func kdfToProto(p model.KDFParams) *proto.KDFParams {
	return &proto.KDFParams{
		Time:   p.Time,
		MemKib: p.MemKiB,
		Par:    uint32(p.Par),
	}
}

func kdfFromProto(p *proto.KDFParams) model.KDFParams {
	return model.KDFParams{
		Time:   p.GetTime(),
		MemKiB: p.GetMemKib(),
		Par:    uint8(p.GetPar()),
	}
}
