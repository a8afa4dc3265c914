package webapp

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.jwt == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Authentication disabled")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" {
		s.respondError(w, http.StatusBadRequest, "Username is required")
		return
	}
	if req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "Password is required")
		return
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		s.metrics.RecordLogin(false)
		s.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("generating access token", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		s.logger.Error("generating refresh token", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.metrics.RecordLogin(true)
	s.respondJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.jwt == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Authentication disabled")
		return
	}

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		s.respondError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	userID, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("generating access token", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.respondJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	summary, err := s.Reload(r.Context())
	if err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Reload failed")
		return
	}

	communities := 0
	if summary.Communities != nil {
		communities = len(summary.Communities.Communities)
	}
	s.respondJSON(w, http.StatusOK, ReloadResponse{
		NodeCount:   summary.Stats.NodeCount,
		EdgeCount:   summary.Stats.EdgeCount,
		Communities: communities,
		Elapsed:     time.Since(start).Round(time.Millisecond).String(),
	})
}
