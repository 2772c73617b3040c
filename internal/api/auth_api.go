package api

import (
	"errors"
	"net/http"

	"innkeeper/internal/auth"
	"innkeeper/internal/models"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  int    `json:"role"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(r.RemoteAddr) {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Login == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	user, err := s.db.FindUserByLogin(r.Context(), req.Login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.writeDomainError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("login", req.Login).Msg("Rejected login with wrong password")
		writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.logger.Info().Str("login", user.Login).Msg("User logged in")
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Role: user.Role})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := s.auth.RevokeToken(r.Context(), claims); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.logger.Info().Str("login", claims.Login).Msg("User logged out")
	w.WriteHeader(http.StatusNoContent)
}
