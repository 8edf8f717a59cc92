package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ActorClaims are the JWT claims understood by the API. Subject carries the
// actor id and Caps the granted capabilities.
type ActorClaims struct {
	jwt.RegisteredClaims
	Caps []string `json:"caps"`
}

// CodeUnauthorized is the error code of every 401 response.
const CodeUnauthorized = "UNAUTHORIZED"

func unauthorized(msg string) dto.ErrorResponse {
	return dto.ErrorResponse{Error: msg, Code: CodeUnauthorized}
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens and
// stores the resulting domain.Actor in the request context.
func AuthMiddleware(jwtSecret string, issuer string) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized("Authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized("Authorization header format must be Bearer {token}"))
			return
		}

		claims := &ActorClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized(msg))
			return
		}

		if !token.Valid || claims.Subject == "" {
			logger.Warn("Invalid token claims or token is not valid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized("Invalid token claims"))
			return
		}

		caps := make([]domain.Capability, 0, len(claims.Caps))
		for _, cp := range claims.Caps {
			caps = append(caps, domain.Capability(cp))
		}
		actor := domain.NewActor(claims.Subject, caps...)

		enrichedLogger := logger.With(slog.String("actor_id", actor.ActorID))
		ctx := WithLogger(WithActor(c.Request.Context(), actor), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
