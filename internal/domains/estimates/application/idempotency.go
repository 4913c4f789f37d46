package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
	"github.com/verdavida/lawncare/internal/domains/estimates/ports"
)

type normalizedCreateEstimate struct {
	Customer       normalizedCustomer   `json:"customer"`
	LineItems      []normalizedLineItem `json:"lineItems"`
	Notes          string               `json:"notes"`
	Terms          string               `json:"terms"`
	ExpirationDate string               `json:"expirationDate,omitempty"`
}

type normalizedCustomer struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

type normalizedLineItem struct {
	ServiceID   *int64 `json:"serviceId"`
	EquipmentID *int64 `json:"equipmentId"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	LineTotal   string `json:"lineTotal"`
}

// FingerprintCreateEstimate hashes the request payload without its idempotency key.
// Amounts compare by value, so "45" and "45.00" hash the same.
func FingerprintCreateEstimate(input estimatetypes.CreateEstimateInput) (string, error) {
	payload, err := json.Marshal(normalizeCreateEstimate(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeCreateEstimate(input estimatetypes.CreateEstimateInput) normalizedCreateEstimate {
	c := input.Customer
	normalized := normalizedCreateEstimate{
		Customer: normalizedCustomer{
			FirstName:  strings.TrimSpace(c.FirstName),
			LastName:   strings.TrimSpace(c.LastName),
			Email:      strings.ToLower(strings.TrimSpace(c.Email)),
			Phone:      strings.TrimSpace(c.Phone),
			Address:    strings.TrimSpace(c.Address),
			City:       strings.TrimSpace(c.City),
			State:      strings.TrimSpace(c.State),
			PostalCode: strings.TrimSpace(c.PostalCode),
		},
		LineItems: make([]normalizedLineItem, 0, len(input.LineItems)),
		Notes:     strings.TrimSpace(input.Notes),
		Terms:     strings.TrimSpace(input.Terms),
	}
	for _, item := range input.LineItems {
		normalized.LineItems = append(normalized.LineItems, normalizedLineItem{
			ServiceID:   item.ServiceID,
			EquipmentID: item.EquipmentID,
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.String(),
			LineTotal:   item.LineTotal.String(),
		})
	}
	if input.ExpirationDate != nil {
		normalized.ExpirationDate = input.ExpirationDate.UTC().Format(time.RFC3339Nano)
	}
	return normalized
}

// replayCreate returns the estimate an earlier request with the same key created,
// or nil when the key is new.
func (s *Service) replayCreate(ctx context.Context, key, fingerprint string) (*estimatetypes.EstimateProjection, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "idempotency lookup failed", slog.String("error", err.Error()))
		return nil, persistenceError(msgCreateDatabase, err)
	}
	if record == nil {
		return nil, nil
	}
	if record.RequestHash != fingerprint {
		return nil, fmt.Errorf("%w: %s", ports.ErrIdempotencyConflict, key)
	}
	s.logger.InfoContext(ctx, "replaying estimate creation",
		slog.String("idempotency.key", key), slog.Int64("estimate.id", record.EstimateID))
	return s.GetEstimate(ctx, record.EstimateID)
}

// rememberCreate records the created estimate under key. Failures are logged only:
// the estimate already exists and the caller gets it either way.
func (s *Service) rememberCreate(ctx context.Context, key, fingerprint string, estimateID int64) {
	_, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: fingerprint,
		EstimateID:  estimateID,
	})
	if err == nil {
		return
	}
	level := slog.LevelError
	if errors.Is(err, ports.ErrIdempotencyConflict) {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "failed to store idempotency key",
		slog.String("idempotency.key", key), slog.Int64("estimate.id", estimateID), slog.String("error", err.Error()))
}
