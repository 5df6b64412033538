package middleware

import (
	"net"
	"net/http"
	"salon/shared"
	"salon/shared/constant"
	"salon/transport/http/response"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeyRateLimit = "limiter"

// RateLimit counts requests per client address and user agent in a fixed window.
// It fails open when the counter store is unreachable.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limiter := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !limiter.Enable {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := shared.BuildCacheKey(cacheKeyRateLimit, clientAddress(r), userAgent(r))

			count, err := a.cache.Increment(r.Context(), key, limiter.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limiter.MaxRequests)-count), 10))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			if count > int64(limiter.MaxRequests) {
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != constant.Empty {
		return ua
	}

	return "unknown"
}

// clientAddress prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer host.
func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get(constant.RequestHeaderForwardedFor); forwarded != constant.Empty {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get(constant.RequestHeaderRealIP); realIP != constant.Empty {
		return strings.TrimSpace(realIP)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
