package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = errors.New("sample")

func TestResponder_UsesMapperThenFallsBackToInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewResponder(func(err error) (ProblemDetail, bool) {
		if errors.Is(err, errSample) {
			return ErrConflict.WithDetail("mapped"), true
		}
		return ProblemDetail{}, false
	})

	router := gin.New()
	router.GET("/mapped", func(c *gin.Context) { responder.RespondError(c, errSample) })
	router.GET("/unmapped", func(c *gin.Context) { responder.RespondError(c, errors.New("db password leaked")) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mapped", nil))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "mapped", body.Detail)
	assert.Equal(t, "/mapped", body.Instance)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unmapped", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestNewValidationProblem_CarriesFields(t *testing.T) {
	p := NewValidationProblem(map[string]string{"customer.email": "Invalid email format"})
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "Invalid email format", p.Errors["customer.email"])
}
