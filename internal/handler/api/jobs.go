package api

import (
	"context"
	"net/http"

	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// JobRunner triggers background jobs on demand.
type JobRunner interface {
	RunOnce(ctx context.Context, name string) error
	Jobs() []string
}

type JobsHandler struct {
	runner JobRunner
}

func NewJobsHandler(runner JobRunner) *JobsHandler {
	return &JobsHandler{runner: runner}
}

// @Summary List jobs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Router /admin/jobs [get]
func (h *JobsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.runner.Jobs()})
}

// @Summary Run job
// @Description Run one tick of a background job now. A tick already in flight is not duplicated.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param name path string true "Job name"
// @Success 202 {object} map[string]string
// @Failure 404 {object} httperr.Response
// @Router /admin/jobs/{name}/run [post]
func (h *JobsHandler) Run(c *gin.Context) {
	name := c.Param("name")
	if err := h.runner.RunOnce(c.Request.Context(), name); err != nil {
		if errs.Is(err, scheduler.ErrUnknownJob) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Unknown job", nil)
			return
		}
		httperr.FromError(c, err, "Job run failed")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job": name, "status": "ran"})
}
