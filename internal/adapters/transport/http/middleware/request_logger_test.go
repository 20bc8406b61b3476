package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_NeverLogsCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.POST("/auth/refresh", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.Header.Set("Cookie", "refresh_token=secret-refresh")
	req.Header.Set("Authorization", "Bearer secret-access")
	req.Header.Set("Origin", "https://app.example")
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.NotEmpty(t, w.Header().Get(HeaderRequestID))

	for _, e := range logs.All() {
		for k, v := range e.ContextMap() {
			s, _ := v.(string)
			require.False(t, strings.Contains(s, "secret"), "field %s leaks a credential", k)
		}
	}

	incoming := logs.FilterMessage("incoming request").All()
	require.Len(t, incoming, 1)
	fields := incoming[0].ContextMap()
	require.Equal(t, "https://app.example", fields["origin"])
	require.Equal(t, []interface{}{"Cookie", "Authorization"}, fields["credentials"])

	done := logs.FilterMessage("completed").All()
	require.Len(t, done, 1)
	require.EqualValues(t, 200, done[0].ContextMap()["status"])
	require.Equal(t, "/auth/refresh", done[0].ContextMap()["path"])
}

func TestRequestLogger_KeepsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(204) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	r.ServeHTTP(w, req)

	require.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRequestLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/limited", func(c *gin.Context) { c.AbortWithStatus(429) })
	r.GET("/boom", func(c *gin.Context) { c.Status(500) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/limited", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/boom", nil))

	levels := map[string]zapcore.Level{}
	for _, e := range logs.All() {
		levels[e.ContextMap()["path"].(string)] = e.Level
	}
	require.Equal(t, zapcore.WarnLevel, levels["/limited"])
	require.Equal(t, zapcore.ErrorLevel, levels["/boom"])
}
