package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie    = "boutique-session"
	authenticatedKey = "authenticated"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	OwnerName  string `json:"ownerName,omitempty"`
	CSRFToken  string `json:"csrfToken,omitempty"`
}

// authenticated - в браузере есть наша кука и владелица отмечена вошедшей
func (h *Handler) authenticated(r *http.Request) bool {
	s, err := h.Cookies.Get(r, sessionCookie)
	if err != nil {
		return false
	}
	ok, _ := s.Values[authenticatedKey].(bool)
	return ok && h.Session.Current().IsLoggedIn
}

// requirePage пускает на страницу только владелицу, остальных отправляет на /login
func (h *Handler) requirePage(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.authenticated(r) {
			requestLogger(r.Context(), h.log).Debug("not authenticated, redirecting to login", slog.String("path", r.URL.Path))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// requireAPI - то же для API: вместо редиректа отдаём 401
func (h *Handler) requireAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.authenticated(r) {
			h.respondError(w, http.StatusUnauthorized, "login required")
			return
		}
		next(w, r)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http.Handler.login"
	log := requestLogger(r.Context(), h.log).With(slog.String("op", op))

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		h.respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if !h.checkOwner(creds) {
		log.Warn("failed login attempt", slog.String("email", creds.Email))
		h.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := h.Session.Login(r.Context(), h.Owner.DisplayName); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	s, _ := h.Cookies.Get(r, sessionCookie)
	s.Values[authenticatedKey] = true
	if err := s.Save(r, w); err != nil {
		log.Error("failed to save session cookie", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.respondJSON(w, http.StatusOK, sessionResponse{IsLoggedIn: true, OwnerName: h.Owner.DisplayName})
}

// checkOwner сверяет почту и пароль с единственной учётной записью владелицы
func (h *Handler) checkOwner(creds credentials) bool {
	if h.Owner.PasswordHash == "" {
		h.log.Warn("owner password hash is not configured, login disabled")
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(creds.Email), strings.TrimSpace(h.Owner.Email)) {
		// всё равно гоняем bcrypt, чтобы время ответа не выдавало почту
		_ = bcrypt.CompareHashAndPassword([]byte(h.Owner.PasswordHash), []byte(creds.Password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.Owner.PasswordHash), []byte(creds.Password)) == nil
}

// logout всегда гасит куку вызывающего, а общее состояние входа
// сбрасывает только если выходит сама владелица
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if h.authenticated(r) {
		if err := h.Session.Logout(r.Context()); err != nil {
			h.respondServiceError(w, r, err)
			return
		}
	} else {
		requestLogger(r.Context(), h.log).Debug("logout without session, expiring cookie only")
	}

	s, _ := h.Cookies.Get(r, sessionCookie)
	s.Values[authenticatedKey] = false
	s.Options.MaxAge = -1
	if err := s.Save(r, w); err != nil {
		requestLogger(r.Context(), h.log).Error("failed to expire session cookie", slog.String("error", err.Error()))
	}

	h.respondJSON(w, http.StatusOK, sessionResponse{})
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{CSRFToken: csrf.Token(r)}
	if h.authenticated(r) {
		resp.IsLoggedIn = true
		resp.OwnerName = h.Session.Current().OwnerName
	}
	h.respondJSON(w, http.StatusOK, resp)
}
