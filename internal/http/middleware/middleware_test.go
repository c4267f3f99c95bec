package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ishaan2692/matchify/internal/session"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		// Check if it's readable in handler (from response body)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestSession(t *testing.T) {
	mgr := session.NewManager()

	app := fiber.New()
	app.Use(Session(mgr))

	app.Get("/test", func(c *fiber.Ctx) error {
		sess := SessionFromCtx(c)
		if sess == nil {
			return fiber.ErrInternalServerError
		}
		return c.SendString(sess.ID.String())
	})

	t.Run("should start a new session if header missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		sidHeader := resp.Header.Get(SessionHeader)
		assert.NotEmpty(t, sidHeader)
		_, err := uuid.Parse(sidHeader)
		assert.NoError(t, err)
		assert.Equal(t, 1, mgr.Len())

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, sidHeader, buf.String())
	})

	t.Run("should reuse an existing session", func(t *testing.T) {
		existing := uuid.New()
		mgr.GetOrCreate(existing)
		before := mgr.Len()

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(SessionHeader, existing.String())

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existing.String(), resp.Header.Get(SessionHeader))
		assert.Equal(t, before, mgr.Len())
	})

	t.Run("should start fresh on a malformed id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(SessionHeader, "not-a-uuid")

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		sidHeader := resp.Header.Get(SessionHeader)
		assert.NotEqual(t, "not-a-uuid", sidHeader)
		_, err := uuid.Parse(sidHeader)
		assert.NoError(t, err)
	})
}

func TestSessionFromCtx_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/test", func(c *fiber.Ctx) error {
		assert.Nil(t, SessionFromCtx(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	// Logger usually depends on RequestID for request_id field
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	// Verify log output
	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])

	// Without tracing there is no trace to correlate with.
	_, ok := logData["trace_id"]
	assert.False(t, ok)
}

func TestLoggerTraceCorrelation(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	traceID := oteltrace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanCtx := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  oteltrace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
	})

	app.Use(LoggerWithWriter(&buf, time.UTC))
	// Stand-in for the tracing middleware, which stores the span on the
	// user context the same way.
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(oteltrace.ContextWithSpanContext(c.UserContext(), spanCtx))
		return c.Next()
	})

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)
	assert.Equal(t, traceID.String(), logData["trace_id"])
}
