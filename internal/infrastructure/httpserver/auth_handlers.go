package httpserver

import (
	"net/http"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/domain/user"
	"github.com/avatarctic/petpal/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// register creates an account and signs it in.
func (s *Server) register(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.userService.Register(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	tokens, err := s.authSvc.GenerateTokens(c.Request().Context(), created)
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": created.ID, "ip": c.RealIP()}).Info("user registered")
	}
	return c.JSON(http.StatusCreated, &auth.Session{User: created, Tokens: tokens})
}

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := s.authSvc.Login(c.Request().Context(), &req)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"username": req.Username, "ip": c.RealIP()}).WithError(err).Warn("login failed")
		}
		return err
	}

	return c.JSON(http.StatusOK, session)
}

func (s *Server) refreshToken(c echo.Context) error {
	var req auth.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := s.authSvc.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) logout(c echo.Context) error {
	token, err := helpers.GetJWTTokenFromContext(c)
	if err != nil {
		return err
	}

	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	// Blacklists the token and drops its session claims
	if err := s.authSvc.Logout(c.Request().Context(), userID, token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to logout")
	}

	return c.NoContent(http.StatusNoContent)
}
