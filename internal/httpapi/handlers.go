package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/export"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
	"github.com/joseph-ayodele/health-summary/internal/server"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	pipeline *pipeline.Pipeline
	export   *export.Service
	logger   *slog.Logger
}

type createSummaryRequest struct {
	Text           string `json:"text"`
	InputMethod    string `json:"input_method"`
	PatientName    string `json:"patient_name"`
	IncludeDisplay bool   `json:"include_display"`
}

type createSummaryResponse struct {
	Index   int            `json:"index"`
	ID      string         `json:"id"`
	Summary entity.Summary `json:"summary"`
	Display string         `json:"display,omitempty"`
}

func (h *Handler) CreateSummary(c *gin.Context) {
	var req createSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	method := constants.FreeText
	if strings.TrimSpace(req.InputMethod) != "" {
		m, err := constants.ParseInputMethod(req.InputMethod)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		method = m
	}

	entry, err := h.pipeline.Process(c.Request.Context(), pipeline.DocumentRequest{
		Text:        req.Text,
		InputMethod: method,
		PatientName: req.PatientName,
	})
	if err != nil {
		h.fail(c, "create summary failed", err)
		return
	}

	resp := createSummaryResponse{Index: entry.Index, ID: entry.ID.String(), Summary: entry.Summary}
	if req.IncludeDisplay {
		resp.Display = pipeline.FormatSummaryForDisplay(entry.Summary)
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSummary returns the stored summary; ?format=text renders it for display.
func (h *Handler) GetSummary(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	entry, err := h.pipeline.History().Get(c.Request.Context(), index)
	if err != nil {
		h.fail(c, "get summary failed", err)
		return
	}
	if c.Query("format") == "text" {
		c.String(http.StatusOK, pipeline.FormatSummaryForDisplay(entry.Summary))
		return
	}
	c.JSON(http.StatusOK, entry.Summary)
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	var fb entity.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback data"})
		return
	}
	reward, err := h.pipeline.CollectFeedback(c.Request.Context(), index, fb)
	if err != nil {
		h.fail(c, "feedback failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "reward": reward})
}

func (h *Handler) ListHistory(c *gin.Context) {
	entries, err := h.pipeline.History().List(c.Request.Context())
	if err != nil {
		h.fail(c, "list history failed", err)
		return
	}
	withSummary := c.Query("include_summary") == "true"
	items := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, server.HistoryItem(e, withSummary))
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// ExportHistory streams the history workbook; from and to are YYYY-MM-DD.
func (h *Handler) ExportHistory(c *gin.Context) {
	var window [2]*time.Time
	for i, name := range []string{"from", "to"} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
			return
		}
		window[i] = &t
	}
	xlsx, err := h.export.ExportHistoryXLSX(c.Request.Context(), window[0], window[1])
	if err != nil {
		h.fail(c, "export failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="health_history.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, xlsx)
}

func pathIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

// fail maps caller errors to 400, missing entries to 404, the rest to 500.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	switch {
	case common.IsClientError(err):
		h.logger.Warn(msg, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
