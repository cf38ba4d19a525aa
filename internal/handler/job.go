package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tengolugar/internal/scheduler"
)

// JobRunner runs a registered job by name.
type JobRunner interface {
	RunByName(ctx context.Context, name string) (scheduler.Result, error)
}

// JobHandler exposes the periodic jobs to an external cron service.
type JobHandler struct {
	runner JobRunner
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(runner JobRunner) *JobHandler {
	return &JobHandler{runner: runner}
}

// Run handles POST /v1/internal/jobs/:name
func (h *JobHandler) Run(c *gin.Context) {
	result, err := h.runner.RunByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		code := mapErrorToHTTPStatus(err)
		if code == http.StatusInternalServerError {
			_ = c.Error(err)
		}
		respondJSON(c, code, result)
		return
	}

	respondJSON(c, http.StatusOK, result)
}
