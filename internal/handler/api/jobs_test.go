//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/scheduler"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	names []string
	ran   []string
	err   error
}

func (r *fakeRunner) Jobs() []string { return r.names }

func (r *fakeRunner) RunOnce(_ context.Context, name string) error {
	if r.err != nil {
		return r.err
	}
	for _, n := range r.names {
		if n == name {
			r.ran = append(r.ran, name)
			return nil
		}
	}
	return errs.Wrapf(scheduler.ErrUnknownJob, "%q", name)
}

func jobsRouter(runner api.JobRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := api.NewJobsHandler(runner)
	router.GET("/admin/jobs", h.List)
	router.POST("/admin/jobs/:name/run", h.Run)
	return router
}

func TestJobsHandler(t *testing.T) {
	t.Run("lists registered jobs", func(t *testing.T) {
		runner := &fakeRunner{names: []string{"deadline-sweeper", "outbox-relay"}}
		rec := httptest.PerformRequest(t, jobsRouter(runner), http.MethodGet, "/admin/jobs", nil, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := httptest.Decode[struct {
			Jobs []string `json:"jobs"`
		}](t, rec)
		assert.Equal(t, runner.names, body.Jobs)
	})

	t.Run("runs a job on demand", func(t *testing.T) {
		runner := &fakeRunner{names: []string{"deadline-sweeper"}}
		rec := httptest.PerformRequest(t, jobsRouter(runner), http.MethodPost, "/admin/jobs/deadline-sweeper/run", nil, "")

		httptest.AssertSuccessResponse(t, rec, http.StatusAccepted, nil)
		assert.Equal(t, []string{"deadline-sweeper"}, runner.ran)
	})

	t.Run("unknown job is 404", func(t *testing.T) {
		rec := httptest.PerformRequest(t, jobsRouter(&fakeRunner{}), http.MethodPost, "/admin/jobs/nope/run", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "Unknown job")
	})

	t.Run("failing run maps through the taxonomy", func(t *testing.T) {
		runner := &fakeRunner{names: []string{"outbox-relay"}, err: errs.Wrap(shared.ErrStorageUnavailable, "dial")}
		rec := httptest.PerformRequest(t, jobsRouter(runner), http.MethodPost, "/admin/jobs/outbox-relay/run", nil, "")
		httptest.AssertErrorCode(t, rec, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE")

		runner.err = errors.New("broker rejected batch")
		rec = httptest.PerformRequest(t, jobsRouter(runner), http.MethodPost, "/admin/jobs/outbox-relay/run", nil, "")
		httptest.AssertErrorCode(t, rec, http.StatusInternalServerError, "INTERNAL")
	})
}
