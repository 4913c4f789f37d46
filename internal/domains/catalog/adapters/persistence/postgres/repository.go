package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdavida/lawncare/internal/domains/catalog/domain"
	"github.com/verdavida/lawncare/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type serviceRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;size:100;not null;index"`
	Description string          `gorm:"column:description;size:500"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:numeric(18,2);not null"`
	ServiceType string          `gorm:"column:service_type;size:32;not null"`
	Seasons     pq.StringArray  `gorm:"column:seasons;type:text[]"`
	IsActive    bool            `gorm:"column:is_active;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (serviceRecord) TableName() string { return "services" }

type equipmentRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Name          string          `gorm:"column:name;size:100;not null;index"`
	Description   string          `gorm:"column:description;size:500"`
	HourlyRate    decimal.Decimal `gorm:"column:hourly_rate;type:numeric(18,2);not null"`
	EquipmentType string          `gorm:"column:equipment_type;size:32;not null"`
	IsActive      bool            `gorm:"column:is_active;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (equipmentRecord) TableName() string { return "equipment" }

func (r *Repository) ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var records []serviceRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Service, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) ListEquipment(ctx context.Context, activeOnly bool) ([]*domain.Equipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var records []equipmentRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Equipment, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) ServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record serviceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) EquipmentByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record equipmentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Counts(ctx context.Context) (int64, int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, 0, err
	}
	var services, equipment int64
	if err := r.db.WithContext(ctx).Model(&serviceRecord{}).Count(&services).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&equipmentRecord{}).Count(&equipment).Error; err != nil {
		return 0, 0, err
	}
	return services, equipment, nil
}

func (r *Repository) InsertServices(ctx context.Context, services []*domain.Service) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(services) == 0 {
		return nil
	}
	records := make([]serviceRecord, 0, len(services))
	for _, svc := range services {
		records = append(records, toServiceRecord(svc))
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return err
	}
	for i := range records {
		services[i].ID = records[i].ID
	}
	return nil
}

func (r *Repository) InsertEquipment(ctx context.Context, equipment []*domain.Equipment) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(equipment) == 0 {
		return nil
	}
	records := make([]equipmentRecord, 0, len(equipment))
	for _, item := range equipment {
		records = append(records, equipmentRecord{
			Name:          item.Name,
			Description:   item.Description,
			HourlyRate:    item.HourlyRate,
			EquipmentType: string(item.Type),
			IsActive:      item.IsActive,
		})
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return err
	}
	for i := range records {
		equipment[i].ID = records[i].ID
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toServiceRecord(svc *domain.Service) serviceRecord {
	seasons := make(pq.StringArray, 0, len(svc.Seasons))
	for _, season := range svc.Seasons {
		seasons = append(seasons, string(season))
	}
	return serviceRecord{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		BasePrice:   svc.BasePrice,
		ServiceType: string(svc.Type),
		Seasons:     seasons,
		IsActive:    svc.IsActive,
	}
}

func (r serviceRecord) toDomain() *domain.Service {
	seasons := make([]domain.Season, 0, len(r.Seasons))
	for _, season := range r.Seasons {
		seasons = append(seasons, domain.Season(season))
	}
	return &domain.Service{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		Type:        domain.ServiceType(r.ServiceType),
		Seasons:     seasons,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r equipmentRecord) toDomain() *domain.Equipment {
	return &domain.Equipment{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		HourlyRate:  r.HourlyRate,
		Type:        domain.EquipmentType(r.EquipmentType),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
