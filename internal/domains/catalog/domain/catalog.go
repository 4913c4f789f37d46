package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType classifies a lawn care service.
type ServiceType string

const (
	ServiceTypeMowing        ServiceType = "Mowing"
	ServiceTypeTrimming      ServiceType = "Trimming"
	ServiceTypeEdging        ServiceType = "Edging"
	ServiceTypeFertilization ServiceType = "Fertilization"
	ServiceTypeWeedControl   ServiceType = "WeedControl"
	ServiceTypeAeration      ServiceType = "Aeration"
	ServiceTypeSeeding       ServiceType = "Seeding"
	ServiceTypeMulching      ServiceType = "Mulching"
	ServiceTypeLeafRemoval   ServiceType = "LeafRemoval"
	ServiceTypeSnowRemoval   ServiceType = "SnowRemoval"
	ServiceTypeOther         ServiceType = "Other"
)

// EquipmentType classifies a piece of equipment billed by the hour.
type EquipmentType string

const (
	EquipmentTypeMower    EquipmentType = "Mower"
	EquipmentTypeTrimmer  EquipmentType = "Trimmer"
	EquipmentTypeEdger    EquipmentType = "Edger"
	EquipmentTypeBlower   EquipmentType = "Blower"
	EquipmentTypeAerator  EquipmentType = "Aerator"
	EquipmentTypeSpreader EquipmentType = "Spreader"
	EquipmentTypeSeeder   EquipmentType = "Seeder"
	EquipmentTypeTrailer  EquipmentType = "Trailer"
	EquipmentTypeTruck    EquipmentType = "Truck"
	EquipmentTypeOther    EquipmentType = "Other"
)

// Season names when a service is typically offered.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrNegativePrice = errors.New("price must not be negative")
)

// Service is a priced unit of lawn care work.
type Service struct {
	ID          int64
	Name        string
	Description string
	BasePrice   decimal.Decimal
	Type        ServiceType
	Seasons     []Season
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces invariants on the service.
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	if s.BasePrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// OfferedIn reports whether the service is offered during season.
func (s *Service) OfferedIn(season Season) bool {
	for _, candidate := range s.Seasons {
		if candidate == season {
			return true
		}
	}
	return false
}

// Equipment is a piece of machinery that can be billed on an estimate.
type Equipment struct {
	ID          int64
	Name        string
	Description string
	HourlyRate  decimal.Decimal
	Type        EquipmentType
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces invariants on the equipment.
func (e *Equipment) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrNameRequired
	}
	if e.HourlyRate.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// SeasonsFor returns the seasons a service type is offered in.
func SeasonsFor(t ServiceType) []Season {
	switch t {
	case ServiceTypeMowing, ServiceTypeTrimming, ServiceTypeEdging, ServiceTypeFertilization:
		return []Season{SeasonSpring, SeasonSummer, SeasonFall}
	case ServiceTypeWeedControl:
		return []Season{SeasonSpring, SeasonSummer}
	case ServiceTypeAeration, ServiceTypeSeeding, ServiceTypeMulching:
		return []Season{SeasonSpring, SeasonFall}
	case ServiceTypeLeafRemoval:
		return []Season{SeasonFall}
	case ServiceTypeSnowRemoval:
		return []Season{SeasonWinter}
	default:
		return []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}
	}
}

// SeasonOf maps a calendar month to its meteorological season.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}
