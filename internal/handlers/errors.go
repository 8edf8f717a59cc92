package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/SscSPs/hotel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes returned alongside the message.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeUnbalanced         = "UNBALANCED_ENTRY"
	codeNotFound           = "NOT_FOUND"
	codeForbidden          = "FORBIDDEN"
	codeSeparationOfDuties = "SEPARATION_OF_DUTIES"
	codeInvalidTransition  = "INVALID_TRANSITION"
	codeAlreadyPosted      = "ALREADY_POSTED"
	codeConflict           = "CONFLICT"
	codeTimeout            = "TIMEOUT"
	codeInternal           = "INTERNAL_ERROR"
)

// respondWithError maps a service error onto a status code and body.
// action names the failed operation for the generic 500 message.
func respondWithError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var unbalanced *apperrors.UnbalancedEntryError
	switch {
	case errors.As(err, &unbalanced):
		logger.Warn("Unbalanced journal entry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:      err.Error(),
			Code:       codeUnbalanced,
			Debit:      apperrors.FormatAmount(unbalanced.Debit),
			Credit:     apperrors.FormatAmount(unbalanced.Credit),
			Difference: apperrors.FormatAmount(unbalanced.Difference),
		})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: codeValidation})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error(), Code: codeNotFound})
	case errors.Is(err, apperrors.ErrSeparationOfDuties):
		logger.Warn("Separation of duties violation", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error(), Code: codeSeparationOfDuties})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error(), Code: codeForbidden})
	case errors.Is(err, apperrors.ErrAlreadyPosted):
		logger.Warn("Journal entry already posted", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: codeAlreadyPosted})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn("Invalid status transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: codeInvalidTransition})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting update", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: codeConflict})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(c.Request.Context().Err(), context.DeadlineExceeded):
		logger.Error("Request timed out", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Request timed out, nothing was changed", Code: codeTimeout})
	default:
		logger.Error("Request failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to " + action, Code: codeInternal})
	}
}

// respondWithBindError reports a malformed request body or query.
func respondWithBindError(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + what + ": " + err.Error(), Code: codeValidation})
}

// actorFromContext returns the authenticated actor or writes a 401.
func actorFromContext(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Code: middleware.CodeUnauthorized})
		return domain.Actor{}, false
	}
	return actor, true
}
