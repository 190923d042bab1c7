package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/request"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// Options configures a Verifier.
type Options struct {
	Secret string
	// Remote enables fallback validation against the auth service when local
	// verification fails. Nil means local verification is the only mode.
	Remote *RemoteValidator
	// Cache holds remotely validated identities; nil disables caching.
	Cache    Cache
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// Verifier authenticates bearer tokens. Precedence is local-first: the HMAC
// signature is checked with the shared secret, and only when that fails is the
// auth service consulted (when remote validation is configured).
type Verifier struct {
	secret   []byte
	remote   *RemoteValidator
	cache    Cache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

func NewVerifier(opts Options) *Verifier {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Verifier{
		secret:   []byte(opts.Secret),
		remote:   opts.Remote,
		cache:    opts.Cache,
		cacheTTL: ttl,
		logger:   opts.Logger,
	}
}

// Authenticate verifies the request's bearer token and returns the caller's
// identity. All returned errors are AppErrors ready for the envelope.
func (v *Verifier) Authenticate(r *http.Request) (*request.Identity, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, util.Unauthorized("Access token is required")
	}

	id, localErr := v.verifyLocal(token)
	if localErr == nil {
		return id, nil
	}

	if v.remote == nil {
		return nil, localErr
	}

	v.logger.Warn().Err(localErr).Msg("local token verification failed, attempting remote validation")
	return v.validateRemote(r.Context(), token)
}

func (v *Verifier) verifyLocal(token string) (*request.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, util.Unauthorized("Access token expired")
		}
		return nil, util.Unauthorized("Invalid access token")
	}
	if !parsed.Valid {
		return nil, util.Unauthorized("Invalid access token")
	}
	return claims.Identity(), nil
}

func (v *Verifier) validateRemote(ctx context.Context, token string) (*request.Identity, error) {
	if v.cache != nil {
		if id, ok := v.cache.Get(ctx, token); ok {
			return id, nil
		}
	}

	id, err := v.remote.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if v.cache != nil {
		v.cache.Set(ctx, token, id, v.cacheTTL)
	}
	return id, nil
}
