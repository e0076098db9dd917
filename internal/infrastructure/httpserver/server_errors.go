package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/avatarctic/petpal/internal/application/services"
	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

type requestValidator struct{}

func (v *requestValidator) Validate(i interface{}) error { return utils.ValidateStruct(i) }

// handleError renders err as an errorResponse with the status its type maps to.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, body := toErrorResponse(err)
	if status >= http.StatusInternalServerError && s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
			"code":   body.Code,
		}).WithError(err).Error("request failed")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil && s.logger != nil {
		s.logger.WithError(writeErr).Warn("failed to write error response")
	}
}

func toErrorResponse(err error) (int, errorResponse) {
	var (
		contentErr content.Error
		validation utils.ValidationErrors
		dateErr    *services.DateError
		httpErr    *echo.HTTPError
	)
	switch {
	case errors.As(err, &contentErr):
		if _, ok := contentErr.(*content.InvalidKeyError); ok {
			return http.StatusBadRequest, errorResponse{Error: contentErr.Error(), Code: contentErr.Code()}
		}
		return http.StatusInternalServerError, errorResponse{
			Error:   "Failed to fetch content from AI service",
			Details: contentErr.Details(),
			Code:    contentErr.Code(),
		}
	case errors.As(err, &validation):
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Details: []utils.ValidationError(validation), Code: "validation_error"}
	case errors.As(err, &dateErr):
		return http.StatusBadRequest, errorResponse{Error: dateErr.Error(), Code: "invalid_date"}
	case errors.Is(err, ports.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials", Code: "invalid_credentials"}
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"}
	case errors.Is(err, ports.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access denied", Code: "forbidden"}
	case errors.Is(err, ports.ErrConflict):
		return http.StatusConflict, errorResponse{Error: err.Error(), Code: "conflict"}
	case errors.As(err, &httpErr):
		msg := http.StatusText(httpErr.Code)
		if httpErr.Message != nil {
			msg = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, errorResponse{Error: msg}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"}
	}
}
