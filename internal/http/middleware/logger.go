package middleware

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dev0b1/selah-sub001/internal/config"
)

// Package-level zerolog instance, lazily initialized.
var (
	logger      zerolog.Logger
	initialized bool
)

// InitZerologWithConfig initializes the request logger from config.
func InitZerologWithConfig(logConfig *config.LogConfig) {
	var zerologLevel zerolog.Level
	switch logConfig.Level {
	case "debug":
		zerologLevel = zerolog.DebugLevel
	case "info":
		zerologLevel = zerolog.InfoLevel
	case "warn":
		zerologLevel = zerolog.WarnLevel
	case "error":
		zerologLevel = zerolog.ErrorLevel
	default:
		zerologLevel = zerolog.InfoLevel
	}

	if logConfig.Format == "json" {
		logger = zerolog.New(os.Stdout).Level(zerologLevel).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout}
		logger = zerolog.New(output).Level(zerologLevel).With().Timestamp().Logger()
	}

	initialized = true
}

// initZerolog applies the default configuration: info level, console.
func initZerolog() {
	output := zerolog.ConsoleWriter{Out: os.Stdout}
	logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	initialized = true
}

// getLogger returns the request logger, initializing it if needed.
func getLogger() zerolog.Logger {
	if !initialized {
		initZerolog()
	}
	return logger
}

// RequestLogger exposes the request logger for other middleware.
func RequestLogger() zerolog.Logger {
	return getLogger()
}

// Logger records each request with a per-request trace_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traceID := uuid.New().String()
		c.Set("trace_id", traceID)

		c.Next()

		duration := time.Since(start)

		log := getLogger()
		event := log.Info().
			Str("trace_id", traceID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("user_agent", c.Request.UserAgent())

		if len(c.Errors) > 0 {
			event.Err(c.Errors.Last()).Msg("request completed with errors")
		} else {
			event.Msg("request completed")
		}
	}
}
