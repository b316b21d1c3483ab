package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/disputelens/credit-analyzer/internal/extractor"
	"github.com/disputelens/credit-analyzer/internal/models"
	"github.com/disputelens/credit-analyzer/internal/report"
	"github.com/disputelens/credit-analyzer/internal/store"
)

const version = "1.0.0"

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success  bool                  `json:"success"`
	Error    string                `json:"error,omitempty"`
	RunID    string                `json:"runId,omitempty"`
	Bureau   string                `json:"bureau,omitempty"`
	Round    int                   `json:"round,omitempty"`
	Accounts []models.Account      `json:"accounts"`
	Negative []models.Account      `json:"negative"`
	Summary  map[string]int        `json:"summary,omitempty"`
	Traces   []models.SegmentTrace `json:"traces,omitempty"`
	RawText  string                `json:"rawText,omitempty"`
	Version  string                `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Logger   *zap.Logger
	Analyzer *report.Analyzer
	// Store is optional; when nil, runs are not persisted.
	Store *store.Store
}

// RegisterRoutes sets up the API routes on a fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/analyze", h.HandleAnalyze)
	app.Get("/api/analyses", h.HandleListRuns)
	app.Get("/api/analyses/:id", h.HandleGetRun)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// HandleAnalyze accepts either an uploaded report PDF (form field "file")
// or pre-extracted text (form field "text") and runs the extraction
// pipeline. Optional form fields: "round" (integer tag for the output),
// "debug" ("true" includes raw text and segmentation traces).
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	round, _ := strconv.Atoi(c.FormValue("round"))
	debug := c.FormValue("debug") == "true"

	text := c.FormValue("text")
	if text == "" {
		var err error
		text, err = h.extractUpload(c)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
	}
	if strings.TrimSpace(text) == "" {
		return writeError(c, fiber.StatusBadRequest,
			"No report content. Upload a PDF as form field 'file' or supply form field 'text'.")
	}

	res := h.Analyzer.Analyze(text, round)

	resp := AnalyzeResponse{
		Success:  true,
		RunID:    uuid.NewString(),
		Bureau:   string(res.Bureau),
		Round:    round,
		Accounts: res.Accounts,
		Negative: res.Negative,
		Summary:  res.Summary,
		Version:  version,
	}
	if debug {
		resp.Traces = res.Traces
		resp.RawText = text
	}

	if h.Store != nil {
		run := &store.AnalysisRun{
			ID:          resp.RunID,
			Bureau:      res.Bureau,
			RoundNumber: round,
			CreatedAt:   time.Now().UTC(),
			Accounts:    res.Accounts,
			Negative:    res.Negative,
		}
		if err := h.Store.SaveRun(c.Context(), run); err != nil {
			// Persistence failure should not fail the analysis itself.
			h.Logger.Warn("failed to persist analysis run",
				zap.String("run_id", resp.RunID), zap.Error(err))
		}
	}

	h.Logger.Info("analyzed report",
		zap.String("run_id", resp.RunID),
		zap.String("bureau", resp.Bureau),
		zap.Int("accounts", len(res.Accounts)),
		zap.Int("negative", len(res.Negative)))

	return c.JSON(resp)
}

// extractUpload saves the uploaded PDF to a temp file and extracts its text.
func (h *Handler) extractUpload(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("no file uploaded; use form field 'file' or supply 'text'")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return "", fmt.Errorf("only PDF files are supported")
	}

	tmpFile, err := os.CreateTemp("", "report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	if err := c.SaveFile(fileHeader, tmpFile.Name()); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}

	text, err := extractor.ExtractTextCombined(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("PDF extraction failed: %w", err)
	}
	return text, nil
}

// HandleListRuns returns recent stored analysis runs.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	if h.Store == nil {
		return writeError(c, fiber.StatusNotImplemented, "Run history is not enabled.")
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.Store.ListRuns(c.Context(), limit)
	if err != nil {
		h.Logger.Error("failed to list runs", zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "Failed to list runs.")
	}
	if runs == nil {
		runs = []*store.AnalysisRun{}
	}
	return c.JSON(fiber.Map{"success": true, "runs": runs})
}

// HandleGetRun returns one stored run by id.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	if h.Store == nil {
		return writeError(c, fiber.StatusNotImplemented, "Run history is not enabled.")
	}
	run, err := h.Store.GetRun(c.Context(), c.Params("id"))
	if err != nil {
		h.Logger.Error("failed to fetch run", zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "Failed to fetch run.")
	}
	if run == nil {
		return writeError(c, fiber.StatusNotFound, "Run not found.")
	}
	return c.JSON(fiber.Map{"success": true, "run": run})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success:  false,
		Error:    msg,
		Accounts: []models.Account{},
		Negative: []models.Account{},
	})
}
