package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ishaan2692/matchify/internal/http/middleware"
	"github.com/ishaan2692/matchify/internal/llm"
	"github.com/ishaan2692/matchify/internal/service"
	"github.com/ishaan2692/matchify/internal/session"
)

// presignExpiry bounds how long a download link stays valid.
const presignExpiry = 15 * time.Minute

type analyzeRequest struct {
	JobDescription string `json:"job_description"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// currentSession returns the session resolved by middleware.Session. A miss
// means the route was registered without the middleware.
func currentSession(c *fiber.Ctx) (*session.Session, bool) {
	sess := middleware.SessionFromCtx(c)
	return sess, sess != nil
}

// Home describes the app and its pages, like the original landing page.
func Home() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "Matchify",
			"tagline": "Connecting opportunities with the perfect fit.",
			"description": "Matchify matches job descriptions with uploaded resumes. " +
				"Upload your resumes, paste a job description, and let Matchify assess the fit.",
			"pages": []string{"/documents", "/analyze", "/chat"},
		})
	}
}

// HealthCheck reports whether the database responds.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness endpoint with no dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadDocument stores a resume for the caller's session (multipart/form-data, field name: file).
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), sess.ID.String(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrUnsupportedType) {
				return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", "only PDF, DOCX and plain text files are supported")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments lists the session's resumes in upload order with limit & offset.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), sess.ID.String(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetDocument returns one session-owned resume by ID.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		doc, err := svc.Get(c.UserContext(), sess.ID.String(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	}
}

// DocumentURL returns a short-lived download link for a session-owned resume.
func DocumentURL(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		url, err := svc.PresignDownload(c.UserContext(), sess.ID.String(), id, presignExpiry)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{
			"url":        url,
			"expires_in": int(presignExpiry.Seconds()),
		})
	}
}

// DeleteDocument removes one session-owned resume.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), sess.ID.String(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Analyze compares the session's resumes against a job description.
func Analyze(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		var req analyzeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			return writeError(c, fiber.StatusBadRequest, "JOB_DESCRIPTION_REQUIRED", "job description is required")
		}

		report, err := svc.Analyze(c.UserContext(), sess, req.JobDescription)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoDocuments):
				return writeError(c, fiber.StatusBadRequest, "NO_DOCUMENTS", "upload at least one resume first")
			case errors.Is(err, service.ErrNoExtractedText):
				return writeError(c, fiber.StatusUnprocessableEntity, "NO_EXTRACTED_TEXT", "no text could be extracted from the uploaded documents")
			case errors.Is(err, llm.ErrNotConfigured):
				return writeError(c, fiber.StatusServiceUnavailable, "GENERATION_UNAVAILABLE", "generation is unavailable: missing API key")
			case errors.Is(err, service.ErrGeneration):
				return writeError(c, fiber.StatusBadGateway, "GENERATION_FAILED", "generation failed")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(report)
	}
}

// Chat sends one message to the session's assistant. Generation failures do
// not error: the reply carries the fallback text plus a warning.
func Chat(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		reply, err := svc.Send(c.UserContext(), sess, req.Message)
		if err != nil {
			if errors.Is(err, service.ErrEmptyMessage) {
				return writeError(c, fiber.StatusBadRequest, "EMPTY_MESSAGE", "message is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(reply)
	}
}

// ChatHistory returns the session's conversation, oldest turn first.
func ChatHistory(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"turns": svc.History(sess)})
	}
}

// EndSession purges the session's stored documents and forgets its state.
func EndSession(docSvc service.DocumentService, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := currentSession(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		if err := docSvc.PurgeSession(c.UserContext(), sess.ID.String()); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		sessions.Remove(sess.ID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Session-scoped
// routes share one Session middleware instance so every request lands in the
// caller's own conversation and cache.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, analysisSvc service.AnalysisService, chatSvc service.ChatService, sessions *session.Manager) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Matchify API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/", Home())
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	withSession := middleware.Session(sessions)

	app.Post("/documents", withSession, UploadDocument(docSvc))
	app.Get("/documents", withSession, ListDocuments(docSvc))
	app.Get("/documents/:id", withSession, GetDocument(docSvc))
	app.Get("/documents/:id/url", withSession, DocumentURL(docSvc))
	app.Delete("/documents/:id", withSession, DeleteDocument(docSvc))

	app.Post("/analyze", withSession, Analyze(analysisSvc))
	app.Post("/chat", withSession, Chat(chatSvc))
	app.Get("/chat/history", withSession, ChatHistory(chatSvc))
	app.Delete("/session", withSession, EndSession(docSvc, sessions))
}
