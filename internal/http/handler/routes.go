package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"riskapi/internal/riskcalc"
	"riskapi/internal/service"
)

// HealthCheck godoc
// @Summary      Health check
// @Description  Reports whether the service and its database are reachable.
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorPayload
// @Router       /health [get]
//
// A nil db means the service runs in standalone mode and only process
// liveness is reported.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Frontend serves the rendered HTML frontend page.
func Frontend(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		html, err := svc.IndexHTML(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Type("html", "utf-8")
		return c.SendString(html)
	}
}

// ListRisks godoc
// @Summary      Full risk table
// @Description  Returns every risk factor with per-subject scores, weighted values, and per-subject totals.
// @Tags         risks
// @Produce      json
// @Success      200  {object}  service.RiskTable
// @Failure      500  {object}  errorPayload
// @Router       /api/risks [get]
func ListRisks(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := svc.Table(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(table)
	}
}

// GetSubjectRisk godoc
// @Summary      Risk for one subject
// @Description  Returns the total and per-factor weighted risks for a single subject.
// @Tags         risks
// @Produce      json
// @Param        person  path  string  true  "Subject name"
// @Success      200  {object}  service.SubjectRisk
// @Failure      404  {object}  errorPayload
// @Router       /api/risk/{person} [get]
func GetSubjectRisk(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		person := c.Params("person")
		res, err := svc.SubjectRisk(c.UserContext(), person)
		if err != nil {
			if errors.Is(err, riskcalc.ErrUnknownSubject) {
				return writeError(c, fiber.StatusNotFound, "UNKNOWN_SUBJECT", err.Error())
			}
			if errors.Is(err, service.ErrSubjectRequired) {
				return writeError(c, fiber.StatusBadRequest, "SUBJECT_REQUIRED", "subject is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

type createAssessmentRequest struct {
	Subject string `json:"subject"`
}

// CreateAssessment godoc
// @Summary      Create an assessment snapshot
// @Description  Computes the current weighted risk for the subject and stores it as an immutable snapshot.
// @Tags         assessments
// @Accept       json
// @Produce      json
// @Param        body  body  createAssessmentRequest  true  "Assessment subject"
// @Success      201  {object}  model.Assessment
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/assessments [post]
func CreateAssessment(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createAssessmentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		a, err := svc.CreateAssessment(c.UserContext(), req.Subject)
		if err != nil {
			if errors.Is(err, service.ErrSubjectRequired) {
				return writeError(c, fiber.StatusBadRequest, "SUBJECT_REQUIRED", "subject is required")
			}
			if errors.Is(err, riskcalc.ErrUnknownSubject) {
				return writeError(c, fiber.StatusNotFound, "UNKNOWN_SUBJECT", err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// ListAssessments godoc
// @Summary      List assessments
// @Description  Returns stored assessments, newest first, with limit/offset pagination.
// @Tags         assessments
// @Produce      json
// @Param        limit   query  int  false  "Page size (default 10)"
// @Param        offset  query  int  false  "Rows to skip (default 0)"
// @Success      200  {object}  service.AssessmentListResult
// @Failure      400  {object}  errorPayload
// @Router       /api/assessments [get]
func ListAssessments(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limitStr := c.Query("limit", "10")
		offsetStr := c.Query("offset", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListAssessments(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetAssessment godoc
// @Summary      Get an assessment
// @Tags         assessments
// @Produce      json
// @Param        id  path  string  true  "Assessment ID"
// @Success      200  {object}  model.Assessment
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/assessments/{id} [get]
func GetAssessment(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := svc.GetAssessment(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "assessment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(a)
	}
}

// ArchiveReport godoc
// @Summary      Archive an assessment report
// @Description  Renders the HTML report, uploads it to object storage, and returns a presigned download URL.
// @Tags         assessments
// @Produce      json
// @Param        id  path  string  true  "Assessment ID"
// @Success      201  {object}  service.ReportArchive
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Failure      503  {object}  errorPayload
// @Router       /api/assessments/{id}/report [post]
func ArchiveReport(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.ArchiveReport(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "assessment not found")
			case errors.Is(err, service.ErrArchiveDisabled):
				return writeError(c, fiber.StatusServiceUnavailable, "ARCHIVE_DISABLED", "report archive is not configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// DownloadReport godoc
// @Summary      Download an archived report
// @Description  Streams the archived HTML report back from object storage.
// @Tags         assessments
// @Produce      html
// @Param        id  path  string  true  "Assessment ID"
// @Success      200  {string}  string
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Failure      503  {object}  errorPayload
// @Router       /api/assessments/{id}/report [get]
func DownloadReport(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, info, err := svc.DownloadReport(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoReport):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "report not found")
			case errors.Is(err, service.ErrArchiveDisabled):
				return writeError(c, fiber.StatusServiceUnavailable, "ARCHIVE_DISABLED", "report archive is not configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}

// DeleteAssessment godoc
// @Summary      Delete an assessment
// @Description  Removes the assessment and its archived report, if any.
// @Tags         assessments
// @Param        id  path  string  true  "Assessment ID"
// @Success      204
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/assessments/{id} [delete]
func DeleteAssessment(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.DeleteAssessment(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "assessment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when running without a database; the health check then only
// reports process liveness.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.RiskService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// All three paths serve the same rendered page
	app.Get("/", Frontend(svc))
	app.Get("/index", Frontend(svc))
	app.Get("/index.html", Frontend(svc))

	api := app.Group("/api", cors.New())
	api.Get("/risks", ListRisks(svc))
	api.Get("/risk/:person", GetSubjectRisk(svc))
	api.Get("/assessments", ListAssessments(svc))
	api.Post("/assessments", CreateAssessment(svc))
	api.Get("/assessments/:id", GetAssessment(svc))
	api.Delete("/assessments/:id", DeleteAssessment(svc))
	api.Post("/assessments/:id/report", ArchiveReport(svc))
	api.Get("/assessments/:id/report", DownloadReport(svc))
}
