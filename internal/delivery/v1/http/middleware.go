package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// adminAuth пропускает запросы с заголовком "Authorization: Bearer <token>".
func adminAuth(token string, logger logger.Logger) func(http.Handler) http.Handler {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), expected) != 1 {
				logger.Warnf("%d admin access denied: %s %s", http.StatusUnauthorized, r.Method, r.URL.Path)
				WriteError(w, e.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimit ограничивает число запросов с одного IP за минуту.
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			WriteSuccess(w, http.StatusTooManyRequests, NewErrorResponse(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests)))
		}),
	)
}

func secureHeaders() func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	}).Handler
}
