package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/roomreserve-backend/api/responses"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
)

// maxCredentialBody bounds how much of a login/signup body is buffered to find the email.
const maxCredentialBody = 64 << 10

// RateLimitStore counts hits in a fixed window keyed by scope.
type RateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy throttles one credential endpoint by client IP and by email.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// limitHit describes the counter that rejected a request.
type limitHit struct {
	dimension string
	subject   string
	attempts  int64
	limit     int
}

// AuthRateLimit rejects credential requests once the caller's IP or the
// submitted email exceeds the policy window. The request body is restored for
// the next handler.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			hit, err := policy.check(ctx, store, r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if hit != nil {
				policy.reject(ctx, logg, w, *hit)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (p AuthRateLimitPolicy) check(ctx context.Context, store RateLimitStore, r *http.Request) (*limitHit, error) {
	if p.ipLimit > 0 {
		if ip := clientIP(r); ip != "" {
			hit, err := p.count(ctx, store, "ip", ip, p.ipLimit)
			if err != nil || hit != nil {
				return hit, err
			}
		}
	}

	if p.emailLimit > 0 {
		email, err := peekEmail(r)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body")
		}
		if email != "" {
			return p.count(ctx, store, "email", digest(email), p.emailLimit)
		}
	}
	return nil, nil
}

func (p AuthRateLimitPolicy) count(ctx context.Context, store RateLimitStore, dimension, subject string, limit int) (*limitHit, error) {
	scope := strings.Join([]string{p.name, dimension, subject}, ":")
	allowed, attempts, err := store.FixedWindowAllow(ctx, scope, int64(limit), p.window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit store unavailable")
	}
	if allowed {
		return nil, nil
	}
	return &limitHit{dimension: dimension, subject: subject, attempts: attempts, limit: limit}, nil
}

func (p AuthRateLimitPolicy) reject(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, hit limitHit) {
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"policy":    p.name,
			"dimension": hit.dimension,
			"subject":   hit.subject,
			"attempts":  hit.attempts,
			"limit":     hit.limit,
		})
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(p.window.Seconds())))
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

// peekEmail reads the email field from a JSON body and rewinds the body.
func peekEmail(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCredentialBody))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(body.Email)), nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// digest keeps raw email addresses out of counter keys and logs.
func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:12])
}
