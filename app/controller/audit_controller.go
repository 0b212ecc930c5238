package controller

import (
	"log"
	"net/http"
	"strconv"

	"adega-pos/models"
	"adega-pos/repository"
)

// AuditController handles HTTP requests for the activity log
type AuditController struct {
	repository repository.AuditRepositoryInterface
}

// NewAuditController creates a new AuditController
func NewAuditController(repo repository.AuditRepositoryInterface) *AuditController {
	return &AuditController{repository: repo}
}

// ListLogs handles GET /api/logs?limit=N
func (c *AuditController) ListLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	logs, err := c.repository.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("❌ ListLogs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch logs")
		return
	}

	writeJSON(w, http.StatusOK, models.AuditLogListResponse{Logs: logs})
}
