package lawncareserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/verdavida/lawncare/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/verdavida/lawncare/internal/domains/catalog/ports"
)

// CatalogAPI serves the services and equipment price lists.
type CatalogAPI struct {
	service catalogports.Service
}

func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /api/services
// List active services
func (api *CatalogAPI) ListServices(c *gin.Context) {
	services, err := api.service.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromServices(services))
}

// Get /api/equipment
// List active equipment
func (api *CatalogAPI) ListEquipment(c *gin.Context) {
	equipment, err := api.service.ListEquipment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromEquipment(equipment))
}
