//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "lawncare-api"
	ConsumerName = "lawncare-portal"

	StateCatalogSeeded  = "catalog seeded"
	StateEstimateExists = "estimate with id 1 exists"
	StateEstimateAbsent = "no estimate with id 404"
)

const (
	ExistingEstimateID int64 = 1
	MissingEstimateID  int64 = 404
)

// ExampleEstimateRequest provides stable test data for estimate interactions.
// Service 1 is Lawn Mowing in the default catalog.
func ExampleEstimateRequest() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"firstName":  "Jane",
			"lastName":   "Doe",
			"email":      "jane.doe@example.com",
			"phone":      "(410) 555-0199",
			"address":    "12 Severn Ave",
			"city":       "Annapolis",
			"state":      "MD",
			"postalCode": "21403",
		},
		"lineItems": []any{
			map[string]any{
				"serviceId":   1,
				"description": "Lawn Mowing",
				"quantity":    2,
				"unitPrice":   45,
				"lineTotal":   90,
			},
		},
		"notes": "Front and back yard",
		"terms": "Net 15",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
