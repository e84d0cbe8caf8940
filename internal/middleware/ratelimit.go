package middleware

import (
	"net"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	apperrors "clubhub/internal/errors"
)

// ClientIP picks how RealIP is derived. Without trusted proxies the peer
// address is used and X-Forwarded-For is ignored, so clients cannot rotate
// their identity by sending the header themselves.
func ClientIP(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// AuthRateLimit limits credential endpoints per client IP as reported by
// the server's IPExtractor.
func AuthRateLimit(perSecond float64, burst int) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.MapErrorToHTTP(err).EchoError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return apperrors.MapErrorToHTTP(apperrors.ErrRateLimited).EchoError()
		},
	})
}
