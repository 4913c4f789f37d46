package lawncareserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	estimatehttpmapper "github.com/verdavida/lawncare/internal/domains/estimates/adapters/http/mapper"
	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
	estimatesports "github.com/verdavida/lawncare/internal/domains/estimates/ports"
)

// JobsAPI exposes estimates as schedulable jobs.
type JobsAPI struct {
	service estimatesports.Service
}

func NewJobsAPI(service estimatesports.Service) JobsAPI {
	return JobsAPI{service: service}
}

// Get /api/jobs
// Get filtered list of jobs
func (api *JobsAPI) GetJobs(c *gin.Context) {
	input := estimatetypes.ListJobsInput{
		Status: c.DefaultQuery("status", "all"),
		Search: c.Query("search"),
	}
	if _, present := c.GetQuery("customerId"); present {
		id, ok := parseIntQuery(c, "customerId", 0)
		if !ok {
			return
		}
		customerID := int64(id)
		input.CustomerID = &customerID
	}
	jobs, err := api.service.ListJobs(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimatehttpmapper.FromProjectionList(jobs))
}

// Post /api/jobs/:jobId/complete
// Mark a job as completed
func (api *JobsAPI) CompleteJob(c *gin.Context) {
	id, ok := parseIDParam(c, "jobId")
	if !ok {
		return
	}
	var payload estimatehttpmapper.CompleteJobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondBadRequest(c, err)
			return
		}
	}
	job, err := api.service.CompleteJob(c.Request.Context(), estimatetypes.CompleteJobInput{
		EstimateID:      id,
		CompletionNotes: payload.CompletionNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimatehttpmapper.FromProjection(job))
}
