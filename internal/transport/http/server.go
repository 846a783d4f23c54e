package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/asquebay/dreamgirl-boutique/internal/config"
)

// Server - это обёртка над стандартным http.Server
type Server struct {
	httpServer *http.Server
}

// NewServer создает и конфигурирует экземпляр Server
func NewServer(cfg config.HTTPServer, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.Timeout,
			WriteTimeout:      cfg.Timeout,
		},
	}
}

// Run запускает HTTP-сервер
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewCookieStore настраивает хранилище куки сессии владелицы
func NewCookieStore(cfg config.HTTPServer) *sessions.CookieStore {
	store := sessions.NewCookieStore(cfg.SessionKey)
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.CookieSecure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = int((7 * 24 * time.Hour).Seconds())
	if cfg.CookieDomain != "" {
		store.Options.Domain = cfg.CookieDomain
	}
	return store
}

// Chain собирает цепочку: логирование -> заголовки безопасности -> CSRF -> роутер
// CSRF включается флагом csrf_enabled
func Chain(cfg config.HTTPServer, log *slog.Logger, handler http.Handler) http.Handler {
	if cfg.CSRFEnabled {
		protect := csrf.Protect(
			cfg.CSRFKey,
			csrf.Secure(cfg.CookieSecure),
			csrf.Path("/"),
			csrf.TrustedOrigins(trustedOrigins(cfg.Port)),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reason := "unknown"
				if err := csrf.FailureReason(r); err != nil {
					reason = err.Error()
				}
				requestLogger(r.Context(), log).Warn("csrf check failed", slog.String("reason", reason))
				http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
			})),
		)
		handler = protect(handler)
		if !cfg.CookieSecure {
			handler = plaintext(handler)
		}
	}
	return Logging(log, SecurityHeaders(handler))
}

// plaintext помечает запросы как пришедшие по HTTP, иначе csrf ждёт HTTPS-referer
func plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func trustedOrigins(port string) []string {
	if len(port) > 0 && port[0] == ':' {
		port = port[1:]
	}
	return []string{"localhost:" + port, "127.0.0.1:" + port, "localhost", "127.0.0.1"}
}
