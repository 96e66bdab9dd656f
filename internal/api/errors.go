package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/whatnext/backend/internal/middleware"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

const (
	emptyHistoryMessage        = "No meals found. Add some meals first!"
	generationFailedMessage    = "Failed to generate recommendation"
	internalServerErrorMessage = "Internal Server Error"
)

// respondError maps service errors onto status codes. Generation and configuration
// details are logged but never sent to the client.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	logger := zerolog.Ctx(c.Request.Context())

	var (
		authErr       *service.AuthError
		validationErr *service.ValidationError
		dataErr       *service.DataError
		configErr     *service.ConfigError
		generationErr *service.GenerationError
	)

	switch {
	case errors.As(err, &authErr):
		message := middleware.InvalidTokenMessage
		if authErr.Kind == service.AuthMissing {
			message = middleware.MissingTokenMessage
		}
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: message})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: validationErr.Error()})
	case errors.Is(err, service.ErrEmptyHistory):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: emptyHistoryMessage})
	case errors.As(err, &dataErr):
		logger.Warn().Err(err).Str("op", dataErr.Op).Msg("store error")
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: dataErr.Err.Error()})
	case errors.As(err, &configErr):
		logger.Error().Strs("missing", configErr.Missing).Msg("generation service is not configured")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: generationFailedMessage})
	case errors.As(err, &generationErr):
		logger.Error().
			Err(generationErr.Err).
			Str("kind", generationErr.Kind.String()).
			Int("status", generationErr.StatusCode).
			Str("body", generationErr.Body).
			Msg("generation call failed")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: generationFailedMessage})
	default:
		logger.Error().Err(err).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: internalServerErrorMessage})
	}
}

// callerIdentity returns the identity set by AuthMiddleware. A route registered
// without it fails closed.
func callerIdentity(c *gin.Context) (*types.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, &service.AuthError{Kind: service.AuthMissing})
		return nil, false
	}
	return identity, true
}
