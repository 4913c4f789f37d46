package lawncareserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customerhttpmapper "github.com/verdavida/lawncare/internal/domains/customers/adapters/http/mapper"
	customersports "github.com/verdavida/lawncare/internal/domains/customers/ports"
)

const (
	defaultSearchResults = 20
	defaultSeedCount     = 1000
)

type CustomersAPI struct {
	service customersports.Service
}

func NewCustomersAPI(service customersports.Service) CustomersAPI {
	return CustomersAPI{service: service}
}

// Get /api/customers/search
// Search active customers by phone, email or street address
func (api *CustomersAPI) SearchCustomers(c *gin.Context) {
	maxResults, ok := parseIntQuery(c, "maxResults", defaultSearchResults)
	if !ok {
		return
	}
	customers, err := api.service.Search(c.Request.Context(), c.Query("query"), maxResults)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerhttpmapper.FromSearch(customers))
}

// Post /api/customers/seed
// Seed the customer table with generated data
func (api *CustomersAPI) SeedCustomers(c *gin.Context) {
	count, ok := parseIntQuery(c, "count", defaultSeedCount)
	if !ok {
		return
	}
	result, err := api.service.Seed(c.Request.Context(), count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerhttpmapper.FromSeedResult(result))
}
