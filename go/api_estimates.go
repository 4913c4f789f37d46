package lawncareserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	estimatehttpmapper "github.com/verdavida/lawncare/internal/domains/estimates/adapters/http/mapper"
	estimatesports "github.com/verdavida/lawncare/internal/domains/estimates/ports"
)

// EstimatesAPI exposes the estimate lifecycle over HTTP.
type EstimatesAPI struct {
	service estimatesports.Service
}

func NewEstimatesAPI(service estimatesports.Service) EstimatesAPI {
	return EstimatesAPI{service: service}
}

// Post /api/estimates
// Create a new estimate; unknown customers are created on the fly
func (api *EstimatesAPI) CreateEstimate(c *gin.Context) {
	var payload estimatehttpmapper.CreateEstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := estimatehttpmapper.ToCreateInput(payload)
	input.IdempotencyKey = c.GetHeader("Idempotency-Key")
	saved, err := api.service.CreateEstimate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	body := estimatehttpmapper.FromProjection(saved)
	created(c, "/api/estimates/"+strconv.FormatInt(body.ID, 10), body)
}

// Get /api/estimates/:estimateId
// Get an estimate by ID
func (api *EstimatesAPI) GetEstimate(c *gin.Context) {
	id, ok := parseIDParam(c, "estimateId")
	if !ok {
		return
	}
	estimate, err := api.service.GetEstimate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimatehttpmapper.FromProjection(estimate))
}

// Post /api/estimates/:estimateId/send
// Send a draft estimate to its customer
func (api *EstimatesAPI) SendEstimate(c *gin.Context) {
	id, ok := parseIDParam(c, "estimateId")
	if !ok {
		return
	}
	estimate, err := api.service.SendEstimate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimatehttpmapper.FromProjection(estimate))
}
