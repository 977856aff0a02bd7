package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger = zerolog.New(&buf).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	initialized = true

	router := gin.New()
	router.Use(Logger())

	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "test")
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("User-Agent", "test-agent")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	logOutput := buf.String()
	assert.NotEmpty(t, logOutput)

	if strings.Contains(logOutput, "{") {
		var logEntry map[string]interface{}
		err := json.Unmarshal([]byte(logOutput), &logEntry)
		assert.NoError(t, err)

		assert.Contains(t, logEntry, "trace_id")
		assert.Contains(t, logEntry, "method")
		assert.Contains(t, logEntry, "path")
		assert.Contains(t, logEntry, "status")
		assert.Contains(t, logEntry, "duration")
		assert.Contains(t, logEntry, "user_agent")

		assert.Equal(t, "GET", logEntry["method"])
		assert.Equal(t, "/test", logEntry["path"])
		assert.Equal(t, float64(200), logEntry["status"])
		assert.Equal(t, "test-agent", logEntry["user_agent"])
		assert.Equal(t, "request completed", logEntry["message"])
	} else {
		assert.Contains(t, logOutput, "GET")
		assert.Contains(t, logOutput, "/test")
		assert.Contains(t, logOutput, "200")
		assert.Contains(t, logOutput, "test-agent")
		assert.Contains(t, logOutput, "request completed")
	}
}

func TestLoggerWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger = zerolog.New(&buf).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	initialized = true

	router := gin.New()
	router.Use(Logger())

	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
		_ = c.Error(errors.New("test error"))
	})

	req, _ := http.NewRequest("GET", "/error", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logOutput := buf.String()
	assert.NotEmpty(t, logOutput)
	assert.Contains(t, logOutput, "request completed with errors")
}
