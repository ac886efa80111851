package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	typeAccess  = "access"
	typeRefresh = "refresh"
)

var (
	// ErrMissingSecret is returned by NewJWT when a signing secret is empty.
	ErrMissingSecret = errors.New("signing secret is not configured")
	// ErrSharedSecret is returned by NewJWT when both token kinds use the same secret.
	ErrSharedSecret = errors.New("access and refresh secrets must differ")
)

// Claims represents JWT claims with token type and role.
type Claims struct {
	jwt.RegisteredClaims
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

// Options configures the JWT signer.
type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// JWT implements model.Signer with two independent HMAC secrets.
type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

var _ model.Signer = (*JWT)(nil)

// NewJWT creates a signer. Missing or shared secrets are configuration errors.
func NewJWT(opts Options) (*JWT, error) {
	if opts.AccessSecret == "" || opts.RefreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if opts.AccessSecret == opts.RefreshSecret {
		return nil, ErrSharedSecret
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = DefaultAccessTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = DefaultRefreshTTL
	}

	return &JWT{
		accessSecret:  []byte(opts.AccessSecret),
		refreshSecret: []byte(opts.RefreshSecret),
		accessTTL:     opts.AccessTTL,
		refreshTTL:    opts.RefreshTTL,
		now:           time.Now,
	}, nil
}

// RefreshTTL returns the configured refresh token lifetime.
func (j *JWT) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// IssuePair signs an access token and a refresh token for the subject.
func (j *JWT) IssuePair(subjectID string, role model.Role) (model.TokenPair, error) {
	now := j.now()

	access, accessExp, err := j.sign(j.accessSecret, typeAccess, subjectID, role, now, j.accessTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, refreshExp, err := j.sign(j.refreshSecret, typeRefresh, subjectID, role, now, j.refreshTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess validates an access token. Resource services that accept
// the pairs minted here use it; the session engine itself only reads
// refresh tokens.
func (j *JWT) VerifyAccess(tokenString string) (model.Claims, error) {
	return j.verify(j.accessSecret, typeAccess, tokenString)
}

// VerifyRefresh validates a refresh token.
func (j *JWT) VerifyRefresh(tokenString string) (model.Claims, error) {
	return j.verify(j.refreshSecret, typeRefresh, tokenString)
}

func (j *JWT) sign(secret []byte, typ, subjectID string, role model.Role, now time.Time, ttl time.Duration) (string, time.Time, error) {
	// JWT timestamps have second precision.
	exp := now.Add(ttl).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role:      role,
		TokenType: typ,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (j *JWT) verify(secret []byte, typ, tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return model.Claims{}, model.ErrInvalidToken
	}
	if claims.TokenType != typ || claims.Subject == "" || !claims.Role.Valid() {
		return model.Claims{}, model.ErrInvalidToken
	}

	out := model.Claims{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
