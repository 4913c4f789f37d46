package lawncareserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the CatalogAPI part of the API
	CatalogAPI CatalogAPI
	// Routes for the CustomersAPI part of the API
	CustomersAPI CustomersAPI
	// Routes for the EstimatesAPI part of the API
	EstimatesAPI EstimatesAPI
	// Routes for the HealthAPI part of the API
	HealthAPI HealthAPI
	// Routes for the JobsAPI part of the API
	JobsAPI JobsAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListServices",
			http.MethodGet,
			"/api/services",
			handleFunctions.CatalogAPI.ListServices,
		},
		{
			"ListEquipment",
			http.MethodGet,
			"/api/equipment",
			handleFunctions.CatalogAPI.ListEquipment,
		},
		{
			"SearchCustomers",
			http.MethodGet,
			"/api/customers/search",
			handleFunctions.CustomersAPI.SearchCustomers,
		},
		{
			"SeedCustomers",
			http.MethodPost,
			"/api/customers/seed",
			handleFunctions.CustomersAPI.SeedCustomers,
		},
		{
			"CreateEstimate",
			http.MethodPost,
			"/api/estimates",
			handleFunctions.EstimatesAPI.CreateEstimate,
		},
		{
			"GetEstimate",
			http.MethodGet,
			"/api/estimates/:estimateId",
			handleFunctions.EstimatesAPI.GetEstimate,
		},
		{
			"SendEstimate",
			http.MethodPost,
			"/api/estimates/:estimateId/send",
			handleFunctions.EstimatesAPI.SendEstimate,
		},
		{
			"GetJobs",
			http.MethodGet,
			"/api/jobs",
			handleFunctions.JobsAPI.GetJobs,
		},
		{
			"CompleteJob",
			http.MethodPost,
			"/api/jobs/:jobId/complete",
			handleFunctions.JobsAPI.CompleteJob,
		},
		{
			"Health",
			http.MethodGet,
			"/health",
			handleFunctions.HealthAPI.Health,
		},
		{
			"Live",
			http.MethodGet,
			"/health/live",
			handleFunctions.HealthAPI.Live,
		},
		{
			"Ready",
			http.MethodGet,
			"/health/ready",
			handleFunctions.HealthAPI.Ready,
		},
	}
}
