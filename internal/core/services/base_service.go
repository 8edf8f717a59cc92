package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// now is overridable in tests; nil means time.Now().UTC().
	now func() time.Time
}

// Now returns the current time used for audit stamps.
func (s *BaseService) Now() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).WarnContext(ctx, msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

// RequireCapability fails with apperrors.ErrForbidden unless actor holds c.
func (s *BaseService) RequireCapability(ctx context.Context, actor domain.Actor, c domain.Capability) error {
	if actor.Has(c) {
		return nil
	}
	s.LogWarn(ctx, "Actor lacks capability",
		slog.String("actor_id", actor.ActorID),
		slog.String("capability", string(c)))
	return fmt.Errorf("%w: actor %s lacks capability %s", apperrors.ErrForbidden, actor.ActorID, c)
}
