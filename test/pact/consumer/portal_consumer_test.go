//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/verdavida/lawncare/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type estimatePayload struct {
	ID             int64   `json:"id"`
	EstimateNumber string  `json:"estimateNumber"`
	Status         string  `json:"status"`
	TotalAmount    float64 `json:"totalAmount"`
}

type servicePayload struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	estimateBodyMatcher := matchers.Map{
		"id":             matchers.Like(pacttest.ExistingEstimateID),
		"estimateNumber": matchers.Term("EST-20250301-0001", `^EST-\d{8}-\d{4}$`),
		"status":         matchers.Term("Sent", "Draft|Sent|Viewed|Accepted|Rejected|Expired|Cancelled|Completed"),
		"customer": matchers.Map{
			"email":       matchers.Like("jane.doe@example.com"),
			"fullAddress": matchers.Like("12 Severn Ave, Annapolis, MD 21403"),
		},
		"lineItems": matchers.EachLike(matchers.Map{
			"description": matchers.Like("Lawn Mowing"),
			"quantity":    matchers.Like(2),
			"unitPrice":   matchers.Like(45),
			"lineTotal":   matchers.Like(90),
		}, 1),
		"subtotal":    matchers.Like(90),
		"taxAmount":   matchers.Like(0),
		"totalAmount": matchers.Like(90),
		"isExpired":   matchers.Like(false),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request to create an estimate").
		WithRequest("POST", "/api/estimates", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleEstimateRequest())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(estimateBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateEstimateExists).
		UponReceiving("a request to fetch an existing estimate").
		WithRequest("GET", fmt.Sprintf("/api/estimates/%d", pacttest.ExistingEstimateID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(estimateBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateEstimateAbsent).
		UponReceiving("a request for a missing estimate").
		WithRequest("GET", fmt.Sprintf("/api/estimates/%d", pacttest.MissingEstimateID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request to list services").
		WithRequest("GET", "/api/services").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"id":          matchers.Like(1),
				"name":        matchers.Like("Lawn Mowing"),
				"basePrice":   matchers.Like(45),
				"serviceType": matchers.Like("Mowing"),
			}, 1))
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateEstimate(ctx, pacttest.ExampleEstimateRequest())
		if err != nil {
			return fmt.Errorf("create estimate: %w", err)
		}
		if created == nil || created.ID == 0 || created.EstimateNumber == "" {
			return fmt.Errorf("expected created estimate to carry id and number, got %+v", created)
		}

		fetched, err := client.GetEstimate(ctx, pacttest.ExistingEstimateID)
		if err != nil {
			return fmt.Errorf("get estimate: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingEstimateID {
			return fmt.Errorf("expected estimate id %d, got %+v", pacttest.ExistingEstimateID, fetched)
		}

		if _, err := client.GetEstimate(ctx, pacttest.MissingEstimateID); err == nil {
			return fmt.Errorf("expected 404 for estimate %d", pacttest.MissingEstimateID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		services, err := client.ListServices(ctx)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		if len(services) == 0 {
			return fmt.Errorf("expected at least one service")
		}
		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *portalClient) CreateEstimate(ctx context.Context, request map[string]any) (*estimatePayload, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/estimates", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload estimatePayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *portalClient) GetEstimate(ctx context.Context, id int64) (*estimatePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/estimates/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	var payload estimatePayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *portalClient) ListServices(ctx context.Context) ([]servicePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/services", nil)
	if err != nil {
		return nil, err
	}
	var payload []servicePayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *portalClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
