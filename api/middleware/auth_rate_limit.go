package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/threadcart-backend/api/responses"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
	"github.com/angelmondragon/threadcart-backend/pkg/logger"
)

// rateLimiterStore is the slice of pkg/redis the limiter needs. Counters land
// under the shared tc: namespace.
type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy caps how often a credential endpoint can be hit within a
// fixed window, counted two ways: per source IP so one address cannot spray
// passwords, and per target account so one mailbox cannot be hammered from
// many addresses. A zero window disables the policy entirely.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy for one endpoint (login, register).
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) policyName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// AuthRateLimit guards a credential endpoint with the provided policy.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		lim := authLimiter{policy: policy, store: store, logg: logg}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if lim.throttle(ctx, w, "ip", clientIP(r), policy.ipLimit) {
				return
			}

			if policy.emailLimit > 0 {
				account, err := peekAccountEmail(r)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				if lim.throttle(ctx, w, "account", account, policy.emailLimit) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

type authLimiter struct {
	policy AuthRateLimitPolicy
	store  rateLimiterStore
	logg   *logger.Logger
}

// throttle bumps the counter for one scope and answers whether the request
// was terminated. An empty subject or zero limit leaves the scope unchecked;
// a store failure rejects the attempt rather than letting it through
// uncounted.
func (l authLimiter) throttle(ctx context.Context, w http.ResponseWriter, scope, subject string, limit int) bool {
	if limit <= 0 || subject == "" {
		return false
	}

	count, err := l.store.IncrWithTTL(ctx, l.counterKey(scope, subject), l.policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= int64(limit) {
		return false
	}

	if l.logg != nil {
		logCtx := l.logg.WithFields(ctx, map[string]any{
			"policy":         l.policy.policyName(),
			"scope":          scope,
			"subject":        subject,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(l.policy.window.Seconds()),
		})
		l.logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts"))
	return true
}

func (l authLimiter) counterKey(scope, subject string) string {
	return fmt.Sprintf("authrl:%s:%s:%s", l.policy.policyName(), scope, subject)
}

// peekAccountEmail reads the credential payload without consuming it and
// returns a hash of the target email, so raw addresses never become redis
// keys. Payloads without a usable email yield an empty subject.
func peekAccountEmail(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return "", nil
	}

	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:]), nil
}

// clientIP resolves the caller address, trusting the proxy headers the
// storefront's load balancer sets before falling back to the socket peer.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
