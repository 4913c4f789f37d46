package lawncareserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type HealthAPI struct {
	checks map[string]ReadinessCheck
}

// NewHealthAPI builds the health endpoints. checks are consulted by /health/ready only.
func NewHealthAPI(checks map[string]ReadinessCheck) HealthAPI {
	return HealthAPI{checks: checks}
}

// Get /health
func (api *HealthAPI) Health(c *gin.Context) {
	api.Ready(c)
}

// Get /health/live
func (api *HealthAPI) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Healthy"})
}

// Get /health/ready
func (api *HealthAPI) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(api.checks))
	for name := range api.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := api.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "Healthy"
	}
	overall := "Healthy"
	if status != http.StatusOK {
		overall = "Unhealthy"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
