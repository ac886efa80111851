package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gophkeeper-sessions/internal/logger"
	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

const (
	DefaultCacheTimeout = 200 * time.Millisecond
	DefaultStoreTimeout = 2 * time.Second
)

// Rotation outcomes reported to the Recorder.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeReused      = "reused"
	OutcomeExpired     = "expired"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Recorder receives session lifecycle counters.
type Recorder interface {
	TokenIssued()
	Rotation(outcome string)
	CacheLookup(hit bool)
	TokenRevoked(count int)
}

// ReuseReporter archives reuse detections for later investigation.
type ReuseReporter interface {
	ReportReuse(ctx context.Context, event model.ReuseEvent) error
}

type nopRecorder struct{}

func (nopRecorder) TokenIssued()     {}
func (nopRecorder) Rotation(string)  {}
func (nopRecorder) CacheLookup(bool) {}
func (nopRecorder) TokenRevoked(int) {}

type SessionOption func(*SessionService)

// WithTimeouts bounds every cache and durable store call.
func WithTimeouts(cache, store time.Duration) SessionOption {
	return func(s *SessionService) {
		if cache > 0 {
			s.cacheTimeout = cache
		}
		if store > 0 {
			s.storeTimeout = store
		}
	}
}

func WithRecorder(r Recorder) SessionOption {
	return func(s *SessionService) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithReuseReporter(r ReuseReporter) SessionOption {
	return func(s *SessionService) {
		s.reporter = r
	}
}

// WithRevokeAllOnReuse revokes every active refresh token of a subject once
// one of its revoked tokens is presented again.
func WithRevokeAllOnReuse(enabled bool) SessionOption {
	return func(s *SessionService) {
		s.revokeAllOnReuse = enabled
	}
}

// SessionService drives the refresh token lifecycle: issuance, rotation,
// validation and revocation over a durable store and a fast cache.
//
// The durable store is the source of truth. The cache only accelerates
// Validate; its failures never fail a request.
type SessionService struct {
	signer model.Signer
	store  model.RefreshTokenStore
	cache  model.TokenCache
	roles  model.RoleResolver
	logger *logger.Logger

	recorder         Recorder
	reporter         ReuseReporter
	revokeAllOnReuse bool
	cacheTimeout     time.Duration
	storeTimeout     time.Duration
	now              func() time.Time
}

func NewSessionService(
	signer model.Signer,
	store model.RefreshTokenStore,
	cache model.TokenCache,
	roles model.RoleResolver,
	logger *logger.Logger,
	opts ...SessionOption,
) *SessionService {
	s := &SessionService{
		signer:       signer,
		store:        store,
		cache:        cache,
		roles:        roles,
		logger:       logger,
		recorder:     nopRecorder{},
		cacheTimeout: DefaultCacheTimeout,
		storeTimeout: DefaultStoreTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints a pair for an authenticated principal. The pair is only
// returned once its refresh token is durably recorded.
func (s *SessionService) Issue(ctx context.Context, principal model.Principal) (model.TokenPair, error) {
	if principal.SubjectID == "" || !principal.Role.Valid() {
		return model.TokenPair{}, model.ErrInvalidPrincipal
	}

	pair, err := s.signer.IssuePair(principal.SubjectID, principal.Role)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign token pair: %w", err)
	}

	hash := fingerprint(pair.RefreshToken)
	record := model.RefreshToken{
		ID:        uuid.New(),
		TokenHash: hash,
		SubjectID: principal.SubjectID,
		CreatedAt: s.now(),
		ExpiresAt: pair.RefreshExpiresAt,
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	err = s.store.Create(storeCtx, record)
	cancel()
	if err != nil {
		s.logger.Error("Session service: failed to persist refresh token",
			"subject_id", principal.SubjectID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("%w: %v", model.ErrPersistenceFailed, err)
	}

	s.cacheSet(ctx, hash, principal.SubjectID, pair.RefreshExpiresAt)
	s.recorder.TokenIssued()

	s.logger.Debug("Session service: token pair issued",
		"subject_id", principal.SubjectID,
		"token_id", record.ID)

	return pair, nil
}

// Rotate exchanges a valid refresh token for a new pair and revokes it.
// Of several concurrent rotations of one token exactly one succeeds; the
// rest get model.ErrTokenReused.
func (s *SessionService) Rotate(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	pair, err := s.rotate(ctx, refreshToken)
	s.recorder.Rotation(rotationOutcome(err))
	return pair, err
}

func (s *SessionService) rotate(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return model.TokenPair{}, model.ErrInvalidToken
	}

	hash := fingerprint(refreshToken)

	// A hit never short-circuits rotation, it only lets a disagreeing
	// entry be dropped early.
	if cached, ok := s.cacheGet(ctx, hash); ok && cached != claims.SubjectID {
		s.logger.Warn("Session service: cached owner disagrees with token subject",
			"token_subject", claims.SubjectID)
		s.cacheDelete(ctx, hash)
	}

	record, err := s.lookup(ctx, hash)
	if err != nil {
		return model.TokenPair{}, err
	}

	role, err := s.resolveRole(ctx, record.SubjectID)
	if err != nil {
		return model.TokenPair{}, err
	}

	pair, err := s.signer.IssuePair(record.SubjectID, role)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign token pair: %w", err)
	}

	nextHash := fingerprint(pair.RefreshToken)
	next := model.RefreshToken{
		ID:            uuid.New(),
		TokenHash:     nextHash,
		SubjectID:     record.SubjectID,
		CreatedAt:     s.now(),
		ExpiresAt:     pair.RefreshExpiresAt,
		RotatedFromID: &record.ID,
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	err = s.store.Rotate(storeCtx, record.ID, next)
	cancel()
	switch {
	case errors.Is(err, model.ErrTokenAlreadyRevoked):
		s.logger.Info("Session service: lost concurrent rotation",
			"subject_id", record.SubjectID,
			"token_id", record.ID)
		return model.TokenPair{}, model.ErrTokenReused
	case err != nil:
		s.logger.Error("Session service: failed to rotate refresh token",
			"subject_id", record.SubjectID,
			"token_id", record.ID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	s.cacheDelete(ctx, hash)
	s.cacheSet(ctx, nextHash, record.SubjectID, pair.RefreshExpiresAt)

	s.logger.Debug("Session service: refresh token rotated",
		"subject_id", record.SubjectID,
		"from_token_id", record.ID,
		"token_id", next.ID)

	return pair, nil
}

// Validate reports the principal a refresh token belongs to without
// consuming it. A cache hit is trusted; a miss is answered by the durable
// store and refills the cache.
func (s *SessionService) Validate(ctx context.Context, refreshToken string) (model.Principal, error) {
	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return model.Principal{}, model.ErrInvalidToken
	}

	hash := fingerprint(refreshToken)
	principal := model.Principal{SubjectID: claims.SubjectID, Role: claims.Role}

	if cached, ok := s.cacheGet(ctx, hash); ok {
		if cached == claims.SubjectID {
			return principal, nil
		}
		s.cacheDelete(ctx, hash)
	}

	record, err := s.lookup(ctx, hash)
	if err != nil {
		return model.Principal{}, err
	}

	if err := s.refill(ctx, hash, record); err != nil {
		return model.Principal{}, err
	}

	principal.SubjectID = record.SubjectID
	return principal, nil
}

// Revoke invalidates a refresh token. It is idempotent and never fails:
// unknown tokens and store errors are logged and swallowed. The cache entry
// is dropped after the durable write so a concurrent refill cannot outlive it.
func (s *SessionService) Revoke(ctx context.Context, refreshToken string) {
	hash := fingerprint(refreshToken)
	defer s.cacheDelete(ctx, hash)

	lookupCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	record, err := s.store.GetByTokenHash(lookupCtx, hash)
	cancel()
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Session service: failed to look up token for revocation",
				"error", err.Error())
		}
		return
	}

	revokeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	revoked, err := s.store.Revoke(revokeCtx, record.ID)
	cancel()
	if err != nil {
		s.logger.Error("Session service: failed to revoke refresh token",
			"subject_id", record.SubjectID,
			"token_id", record.ID,
			"error", err.Error())
		return
	}
	if revoked {
		s.recorder.TokenRevoked(1)
		s.logger.Info("Session service: refresh token revoked",
			"subject_id", record.SubjectID,
			"token_id", record.ID)
	}
}

// RevokeAll revokes every active refresh token of a subject.
func (s *SessionService) RevokeAll(ctx context.Context, subjectID string) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	hashes, err := s.store.RevokeAllBySubject(storeCtx, subjectID)
	cancel()
	if err != nil {
		s.logger.Error("Session service: failed to revoke subject tokens",
			"subject_id", subjectID,
			"error", err.Error())
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	if len(hashes) > 0 {
		s.cacheDelete(ctx, hashes...)
		s.recorder.TokenRevoked(len(hashes))
	}

	s.logger.Info("Session service: subject tokens revoked",
		"subject_id", subjectID,
		"count", len(hashes))

	return nil
}

// lookup loads the durable record for hash and applies the revocation and
// expiry checks shared by Rotate and Validate.
func (s *SessionService) lookup(ctx context.Context, hash []byte) (model.RefreshToken, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	record, err := s.store.GetByTokenHash(storeCtx, hash)
	cancel()
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.RefreshToken{}, model.ErrTokenNotFound
		}
		s.logger.Error("Session service: failed to look up refresh token",
			"error", err.Error())
		return model.RefreshToken{}, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	if record.Revoked {
		s.handleReuse(ctx, record)
		return model.RefreshToken{}, model.ErrTokenReused
	}

	if record.ExpiredAt(s.now()) {
		s.cacheDelete(ctx, hash)
		return model.RefreshToken{}, model.ErrTokenExpired
	}

	return record, nil
}

func (s *SessionService) handleReuse(ctx context.Context, record model.RefreshToken) {
	s.logger.Warn("Session service: revoked refresh token presented",
		"subject_id", record.SubjectID,
		"token_id", record.ID)

	if s.reporter != nil {
		event := model.ReuseEvent{
			TokenID:    record.ID,
			SubjectID:  record.SubjectID,
			DetectedAt: s.now().UTC(),
		}
		if record.RevokedAt != nil {
			event.RevokedAt = record.RevokedAt.UTC()
		}
		reportCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		if err := s.reporter.ReportReuse(reportCtx, event); err != nil {
			s.logger.Error("Session service: failed to report token reuse",
				"subject_id", record.SubjectID,
				"error", err.Error())
		}
		cancel()
	}

	if s.revokeAllOnReuse {
		if err := s.RevokeAll(ctx, record.SubjectID); err != nil {
			s.logger.Error("Session service: failed to revoke sessions after reuse",
				"subject_id", record.SubjectID,
				"token_id", record.ID,
				"error", err.Error())
		}
	}
}

// refill caches a record read from the durable store, then reads it again.
// A revocation that committed in between removes the entry it just wrote.
func (s *SessionService) refill(ctx context.Context, hash []byte, record model.RefreshToken) error {
	s.cacheSet(ctx, hash, record.SubjectID, record.ExpiresAt)

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	current, err := s.store.GetByTokenHash(storeCtx, hash)
	cancel()
	switch {
	case err != nil:
		s.logger.Warn("Session service: failed to confirm cache refill",
			"subject_id", record.SubjectID,
			"error", err.Error())
		s.cacheDelete(ctx, hash)
	case current.Revoked:
		s.cacheDelete(ctx, hash)
		return model.ErrTokenReused
	}
	return nil
}

func (s *SessionService) resolveRole(ctx context.Context, subjectID string) (model.Role, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	role, err := s.roles.ResolveRole(storeCtx, subjectID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", model.ErrTokenNotFound
		}
		s.logger.Error("Session service: failed to resolve role",
			"subject_id", subjectID,
			"error", err.Error())
		return "", fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return role, nil
}

func (s *SessionService) cacheGet(ctx context.Context, hash []byte) (string, bool) {
	cacheCtx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()

	subjectID, err := s.cache.Get(cacheCtx, cacheKey(hash))
	if err != nil {
		if !errors.Is(err, model.ErrCacheMiss) {
			s.logger.Warn("Session service: cache lookup failed",
				"error", err.Error())
		}
		s.recorder.CacheLookup(false)
		return "", false
	}
	s.recorder.CacheLookup(true)
	return subjectID, true
}

func (s *SessionService) cacheSet(ctx context.Context, hash []byte, subjectID string, expiresAt time.Time) {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()

	if err := s.cache.Set(cacheCtx, cacheKey(hash), subjectID, ttl); err != nil {
		s.logger.Warn("Session service: cache write failed",
			"subject_id", subjectID,
			"error", err.Error())
	}
}

func (s *SessionService) cacheDelete(ctx context.Context, hashes ...[]byte) {
	keys := make([]string, 0, len(hashes))
	for _, h := range hashes {
		keys = append(keys, cacheKey(h))
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()

	if err := s.cache.Delete(cacheCtx, keys...); err != nil {
		s.logger.Warn("Session service: cache delete failed",
			"error", err.Error())
	}
}

func rotationOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, model.ErrInvalidToken):
		return OutcomeInvalid
	case errors.Is(err, model.ErrTokenNotFound):
		return OutcomeNotFound
	case errors.Is(err, model.ErrTokenReused):
		return OutcomeReused
	case errors.Is(err, model.ErrTokenExpired):
		return OutcomeExpired
	case errors.Is(err, model.ErrStoreUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

// fingerprint is the durable lookup key of a refresh token.
func fingerprint(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func cacheKey(hash []byte) string {
	return hex.EncodeToString(hash)
}
