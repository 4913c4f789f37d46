// Package weather is a thin HTTP client for the forecast service.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrInvalidFormat = errors.New("invalid zip code format, a 5-digit US zip code is required")
	ErrNotFound      = errors.New("weather data not found")
	ErrUnavailable   = errors.New("weather service is currently unavailable")
	ErrUpstream      = errors.New("weather service error")
	ErrParse         = errors.New("failed to parse weather forecast response")
	ErrTimeout       = errors.New("weather service request timed out")
	ErrConnection    = errors.New("unable to connect to weather service")
)

// StatusError carries the upstream status for non-2xx responses.
type StatusError struct {
	StatusCode int
	Kind       error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Kind, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error { return e.Kind }

// Forecast is the /forecast/{zip} response body.
type Forecast struct {
	ZipCode  string          `json:"zip_code"`
	Location string          `json:"location"`
	Country  string          `json:"country"`
	Days     []DailyForecast `json:"forecast"`
}

// DailyForecast is one day of a forecast. Temperatures are Fahrenheit.
type DailyForecast struct {
	Date            string  `json:"date"`
	TemperatureHigh float64 `json:"temperature_high"`
	TemperatureLow  float64 `json:"temperature_low"`
	TemperatureAvg  float64 `json:"temperature_avg"`
	Description     string  `json:"description"`
	Condition       string  `json:"condition"`
	Humidity        float64 `json:"humidity"`
	WindSpeed       float64 `json:"wind_speed"`
}

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Client calls the weather forecast service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient instantiates the weather client. A zero timeout defaults to 30 seconds.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("weather base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse weather base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// GetForecast fetches the multi-day forecast for a 5-digit zip code.
// Invalid zip codes fail with ErrInvalidFormat before any request is made.
func (c *Client) GetForecast(ctx context.Context, zipCode string) (*Forecast, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("weather client not configured")
	}
	zipCode = strings.TrimSpace(zipCode)
	if !zipPattern.MatchString(zipCode) {
		c.logger.WarnContext(ctx, "invalid zip code format", slog.String("zip_code", zipCode))
		return nil, ErrInvalidFormat
	}

	pathParam, err := runtime.StyleParamWithLocation("simple", false, "zipCode", runtime.ParamLocationPath, zipCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	endpoint := c.baseURL.JoinPath("forecast", pathParam)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.InfoContext(ctx, "fetching weather forecast", slog.String("zip_code", zipCode))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.WarnContext(ctx, "weather API returned error status",
			slog.Int("status", resp.StatusCode),
			slog.String("zip_code", zipCode),
			slog.String("body", string(body)),
		)
		return nil, statusError(resp.StatusCode)
	}

	var forecast Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	c.logger.InfoContext(ctx, "retrieved weather forecast",
		slog.String("zip_code", zipCode),
		slog.String("location", forecast.Location),
		slog.Int("days", len(forecast.Days)),
	)
	return &forecast, nil
}

func statusError(status int) error {
	switch status {
	case http.StatusNotFound:
		return &StatusError{StatusCode: status, Kind: ErrNotFound}
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return &StatusError{StatusCode: status, Kind: ErrUnavailable}
	default:
		return &StatusError{StatusCode: status, Kind: ErrUpstream}
	}
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrConnection, err)
}
