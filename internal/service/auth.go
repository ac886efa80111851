package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apiErrors "github.com/dtroode/gophkeeper-api/errors"
	"github.com/google/uuid"

	auth "github.com/dtroode/gophkeeper-auth/model"
	scram "github.com/dtroode/gophkeeper-auth/scram"

	"github.com/dtroode/gophkeeper-sessions/internal/logger"
	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

// SessionIssuer mints a session for a principal that proved its identity.
type SessionIssuer interface {
	Issue(ctx context.Context, principal model.Principal) (model.TokenPair, error)
}

// Auth runs SCRAM registration and login and hands successful logins to
// the session engine. It never signs tokens itself.
type Auth struct {
	userStore   model.UserStore
	signupStore model.SignupStore
	loginStore  model.LoginStore
	protocol    auth.ServerAuth
	sessions    SessionIssuer
	logger      *logger.Logger
	now         func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	signupStore model.SignupStore,
	loginStore model.LoginStore,
	sessions SessionIssuer,
	logger *logger.Logger,
	kdf auth.KDFParams,
) *Auth {
	return &Auth{
		userStore:   userStore,
		signupStore: signupStore,
		loginStore:  loginStore,
		sessions:    sessions,
		logger:      logger,
		protocol:    scram.NewBaseServerProtocol(kdf, logger),
		now:         time.Now,
	}
}

// GetRegParams opens a registration handshake for a login that is not yet taken.
func (a *Auth) GetRegParams(ctx context.Context, login string) (auth.RegParams, error) {
	log := a.logger.With("login", login)
	log.Debug("Auth service: registration requested")

	if err := a.ensureLoginFree(ctx, login); err != nil {
		return auth.RegParams{}, err
	}

	regParams, err := a.protocol.PrepareRegistration(ctx)
	if err != nil {
		log.Error("Auth service: failed to prepare registration", "error", err.Error())
		return auth.RegParams{}, fmt.Errorf("failed to get server params: %w", err)
	}

	kdf, err := json.Marshal(regParams.KDFParams)
	if err != nil {
		return auth.RegParams{}, fmt.Errorf("failed to marshal kdf params: %w", err)
	}

	err = a.signupStore.Create(ctx, model.PendingSignup{
		SessionID: regParams.SessionID,
		Login:     login,
		SaltRoot:  regParams.SaltRoot,
		KDF:       kdf,
		ExpiresAt: a.now().Add(model.PendingHandshakeTTL),
	})
	if err != nil {
		log.Error("Auth service: failed to store registration handshake",
			"session_id", regParams.SessionID,
			"error", err.Error())
		return auth.RegParams{}, fmt.Errorf("failed to create pending signup: %w", err)
	}

	log.Info("Auth service: registration handshake opened", "session_id", regParams.SessionID)
	return regParams, nil
}

// CompleteReg verifies the client's registration proof and creates the user
// with the default role. The handshake is consumed before the user is
// written so a replayed completion cannot create a second account.
func (a *Auth) CompleteReg(ctx context.Context, params auth.RegComplete) error {
	log := a.logger.With("login", params.Login, "session_id", params.SessionID)
	log.Debug("Auth service: registration completion requested")

	pending, err := a.signupStore.GetBySessionID(ctx, params.SessionID)
	if err != nil {
		log.Error("Auth service: failed to get registration handshake", "error", err.Error())
		return fmt.Errorf("failed to get pending signup by session id: %w", err)
	}
	if pending.Login != params.Login {
		log.Warn("Auth service: registration handshake completed for another login")
		return model.ErrHandshakeMismatch
	}

	if err := a.protocol.VerifyRegistration(ctx, pendingReg(pending), params); err != nil {
		return err
	}

	if err := a.ensureLoginFree(ctx, params.Login); err != nil {
		return err
	}

	if err := a.signupStore.Consume(ctx, pending.SessionID); err != nil {
		return fmt.Errorf("failed to consume signup session: %w", err)
	}

	now := a.now()
	_, err = a.userStore.Create(ctx, model.User{
		ID:        uuid.New(),
		Email:     params.Login,
		Role:      model.RoleUser,
		StoredKey: params.StoredKey,
		ServerKey: params.ServerKey,
		SaltRoot:  params.SaltRoot,
		KDF:       pending.KDF,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return apiErrors.NewErrEmailIsTaken(params.Login)
	}
	if err != nil {
		log.Error("Auth service: failed to create user", "error", err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("Auth service: user registered")
	return nil
}

// GetLoginParams opens a login handshake and returns the user's salt and
// KDF parameters together with a fresh server nonce.
func (a *Auth) GetLoginParams(ctx context.Context, params auth.LoginStart) (auth.LoginParams, error) {
	log := a.logger.With("login", params.Login)
	log.Debug("Auth service: login requested")

	user, err := a.userStore.GetByEmail(ctx, params.Login)
	if errors.Is(err, model.ErrNotFound) {
		return auth.LoginParams{}, apiErrors.NewErrUserNotFound(params.Login)
	}
	if err != nil {
		return auth.LoginParams{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	var kdf auth.KDFParams
	if err := json.Unmarshal(user.KDF, &kdf); err != nil {
		return auth.LoginParams{}, fmt.Errorf("failed to unmarshal user kdf: %w", err)
	}

	sessionParams, err := a.protocol.PrepareLogin(ctx)
	if err != nil {
		return auth.LoginParams{}, fmt.Errorf("failed to get server login params: %w", err)
	}

	err = a.loginStore.Create(ctx, model.PendingLogin{
		SessionID:   sessionParams.SessionID,
		Login:       params.Login,
		ClientNonce: params.ClientNonce,
		ServerNonce: sessionParams.ServerNonce,
		ExpiresAt:   a.now().Add(model.PendingHandshakeTTL),
	})
	if err != nil {
		return auth.LoginParams{}, fmt.Errorf("failed to create pending login: %w", err)
	}

	log.Info("Auth service: login handshake opened", "session_id", sessionParams.SessionID)

	return auth.LoginParams{
		SessionID:   sessionParams.SessionID,
		ServerNonce: sessionParams.ServerNonce,
		SaltRoot:    user.SaltRoot,
		KDFParams:   kdf,
	}, nil
}

// CompleteLogin verifies the client proof, consumes the handshake and issues
// a session for the user's current role.
func (a *Auth) CompleteLogin(ctx context.Context, params auth.LoginComplete) (auth.SessionResult, error) {
	log := a.logger.With("login", params.Login, "session_id", params.SessionID)
	log.Debug("Auth service: login completion requested")

	user, err := a.userStore.GetByEmail(ctx, params.Login)
	if err != nil {
		return auth.SessionResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	pending, err := a.loginStore.GetBySessionID(ctx, params.SessionID)
	if err != nil {
		return auth.SessionResult{}, fmt.Errorf("failed to get pending login: %w", err)
	}
	if pending.Login != params.Login {
		log.Warn("Auth service: login handshake completed for another login")
		return auth.SessionResult{}, model.ErrHandshakeMismatch
	}

	if err := a.protocol.VerifyLogin(ctx, user.StoredKey, pendingLogin(pending), params); err != nil {
		return auth.SessionResult{}, fmt.Errorf("failed to verify login: %w", err)
	}

	if err := a.loginStore.Consume(ctx, pending.SessionID); err != nil {
		return auth.SessionResult{}, fmt.Errorf("failed to consume login session: %w", err)
	}

	pair, err := a.sessions.Issue(ctx, user.Principal())
	if err != nil {
		log.Error("Auth service: failed to issue session", "error", err.Error())
		return auth.SessionResult{}, fmt.Errorf("failed to issue session: %w", err)
	}

	log.Info("Auth service: login completed", "subject_id", user.ID.String())

	return auth.SessionResult{
		ServerSignature: a.protocol.MakeServerSignature(params.Login, user.ServerKey, pending.ClientNonce, pending.ServerNonce),
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
	}, nil
}

func (a *Auth) ensureLoginFree(ctx context.Context, login string) error {
	_, err := a.userStore.GetByEmail(ctx, login)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to get user by email: %w", err)
	default:
		return apiErrors.NewErrEmailIsTaken(login)
	}
}

func pendingReg(p model.PendingSignup) auth.PendingReg {
	return auth.PendingReg{
		SessionID: p.SessionID,
		Login:     p.Login,
		SaltRoot:  p.SaltRoot,
		KDF:       p.KDF,
		ExpiresAt: p.ExpiresAt,
		Consumed:  p.Consumed,
	}
}

func pendingLogin(p model.PendingLogin) auth.PendingLogin {
	return auth.PendingLogin{
		SessionID:   p.SessionID,
		Login:       p.Login,
		ClientNonce: p.ClientNonce,
		ServerNonce: p.ServerNonce,
		ExpiresAt:   p.ExpiresAt,
		Consumed:    p.Consumed,
	}
}
