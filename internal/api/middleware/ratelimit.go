package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/ratelimit"
	"github.com/phrazzld/books-api/internal/redact"
)

// MessageTooManyRequests is the body message of a rate limited response.
const MessageTooManyRequests = "Too many requests, please try again later."

// Limiter counts a request for a client key.
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
	Window() time.Duration
}

// NewRateLimitMiddleware limits requests per client IP. Clients over quota
// get a 429 envelope. Limiter failures are logged and the request proceeds.
// A nil limiter disables limiting.
func NewRateLimitMiddleware(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				logger.FromContext(r.Context()).Warn("rate limiter unavailable, allowing request",
					slog.String("error", redact.Error(err)))
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w.Header(), res, limiter.Window())
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(ceilSeconds(res.Reset)))
				logger.FromContext(r.Context()).Warn("rate limit exceeded",
					slog.String("client", clientKey(r)),
					slog.String("path", r.URL.Path))
				shared.RespondWithEnvelope(w, r, http.StatusTooManyRequests,
					shared.Failure(MessageTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders writes the IETF draft RateLimit headers.
func setRateLimitHeaders(h http.Header, res ratelimit.Result, window time.Duration) {
	h.Set("RateLimit-Policy", strconv.Itoa(res.Limit)+";w="+strconv.Itoa(ceilSeconds(window)))
	h.Set("RateLimit", "limit="+strconv.Itoa(res.Limit)+
		", remaining="+strconv.Itoa(res.Remaining)+
		", reset="+strconv.Itoa(ceilSeconds(res.Reset)))
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

type peerAddrKey struct{}

// PeerAddr records the socket peer address in the request context. It must
// run before chi's RealIP, which rewrites RemoteAddr from client-controlled
// headers.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerAddrKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientKey identifies the client by the IP of the connection, never by a
// forwarding header.
func clientKey(r *http.Request) string {
	addr, ok := r.Context().Value(peerAddrKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
