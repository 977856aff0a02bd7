package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
)

// ErrorHandler maps pipeline errors onto HTTP responses. Callers attach
// errors with c.Error; the last one wins.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		traceID := "unknown"
		if v, ok := c.Get("trace_id"); ok {
			if s, ok := v.(string); ok && s != "" {
				traceID = s
			}
		}
		log := logger.With().Str("trace_id", traceID).Logger()
		log.Error().Err(err).Msg("request failed")

		var httpStatus int
		var errorMsg string

		switch {
		case errors.Is(err, apperrors.ErrInvalidInput):
			httpStatus = http.StatusBadRequest
			errorMsg = err.Error()
		case errors.Is(err, apperrors.ErrGeneration):
			httpStatus = http.StatusBadGateway
			errorMsg = "could not generate a motivation script, please try again"
		case errors.Is(err, apperrors.ErrSynthesisAuth):
			httpStatus = http.StatusBadGateway
			errorMsg = "voice service is misconfigured"
		case errors.Is(err, apperrors.ErrRateLimited):
			httpStatus = http.StatusTooManyRequests
			errorMsg = "voice service is busy, please retry shortly"
		case errors.Is(err, apperrors.ErrSynthesisUnavailable):
			httpStatus = http.StatusBadGateway
			errorMsg = "voice service is unavailable"
		case errors.Is(err, apperrors.ErrMixFailed), errors.Is(err, apperrors.ErrInvalidMarkup):
			httpStatus = http.StatusInternalServerError
			errorMsg = "audio processing failed"
		case errors.Is(err, apperrors.ErrNotFound):
			httpStatus = http.StatusNotFound
			errorMsg = "not found"
		default:
			httpStatus = http.StatusInternalServerError
			errorMsg = "internal server error"
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(httpStatus, gin.H{"error": errorMsg})
		}
	}
}
