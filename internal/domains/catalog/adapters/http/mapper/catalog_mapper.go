package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/verdavida/lawncare/internal/domains/catalog/domain"
)

// Service is a catalog service as returned by the API.
type Service struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	ServiceType string          `json:"serviceType"`
	Seasons     []string        `json:"seasons"`
}

// Equipment is a catalog equipment item as returned by the API.
type Equipment struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	HourlyRate    decimal.Decimal `json:"hourlyRate"`
	EquipmentType string          `json:"equipmentType"`
}

func FromServices(services []*domain.Service) []Service {
	out := make([]Service, 0, len(services))
	for _, s := range services {
		seasons := make([]string, 0, len(s.Seasons))
		for _, season := range s.Seasons {
			seasons = append(seasons, string(season))
		}
		out = append(out, Service{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			BasePrice:   s.BasePrice,
			ServiceType: string(s.Type),
			Seasons:     seasons,
		})
	}
	return out
}

func FromEquipment(equipment []*domain.Equipment) []Equipment {
	out := make([]Equipment, 0, len(equipment))
	for _, e := range equipment {
		out = append(out, Equipment{
			ID:            e.ID,
			Name:          e.Name,
			Description:   e.Description,
			HourlyRate:    e.HourlyRate,
			EquipmentType: string(e.Type),
		})
	}
	return out
}
