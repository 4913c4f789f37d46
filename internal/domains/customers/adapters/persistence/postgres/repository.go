package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

const seedBatchSize = 500

// Repository persists customers in PostgreSQL using GORM. The handle may be a transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type customerRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	FirstName  string    `gorm:"column:first_name;size:100;not null;index:idx_customers_name,priority:2"`
	LastName   string    `gorm:"column:last_name;size:100;not null;index:idx_customers_name,priority:1"`
	Email      string    `gorm:"column:email;size:255;not null;index"`
	Phone      string    `gorm:"column:phone;size:20;index"`
	Address    string    `gorm:"column:address;size:500;index"`
	City       string    `gorm:"column:city;size:100"`
	State      string    `gorm:"column:state;size:50"`
	PostalCode string    `gorm:"column:postal_code;size:20"`
	IsActive   bool      `gorm:"column:is_active;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

func (r *Repository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(customer)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByIDs loads the customers with the given ids. Missing ids are absent from the map.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	out := make(map[int64]*domain.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		out[records[i].ID] = records[i].toDomain()
	}
	return out, nil
}

func (r *Repository) FindActiveByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	err := r.db.WithContext(ctx).
		Where("lower(email) = ? AND is_active = ?", domain.NormalizeEmail(email), true).
		Order("id ASC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Search matches phone, email or address with ILIKE and orders prefix matches before contains matches.
func (r *Repository) Search(ctx context.Context, term string, limit int) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	escaped := escapeLike(strings.TrimSpace(term))
	prefix, contains := escaped+"%", "%"+escaped+"%"
	relevance := clause.OrderBy{Expression: clause.Expr{
		SQL: "CASE WHEN email ILIKE ? THEN 0 ELSE 1 END, CASE WHEN email ILIKE ? THEN 0 ELSE 1 END, " +
			"CASE WHEN phone ILIKE ? THEN 0 ELSE 1 END, CASE WHEN phone ILIKE ? THEN 0 ELSE 1 END, " +
			"CASE WHEN address ILIKE ? THEN 0 ELSE 1 END, CASE WHEN address ILIKE ? THEN 0 ELSE 1 END, " +
			"last_name, first_name, id",
		Vars:               []any{prefix, contains, prefix, contains, prefix, contains},
		WithoutParentheses: true,
	}}
	var records []customerRecord
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("phone ILIKE ? OR email ILIKE ? OR address ILIKE ?", contains, contains, contains).
		Clauses(relevance).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Customer, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&customerRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) CreateBatch(ctx context.Context, customers []*domain.Customer) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(customers) == 0 {
		return nil
	}
	records := make([]customerRecord, 0, len(customers))
	for _, customer := range customers {
		records = append(records, toRecord(customer))
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&records, seedBatchSize).Error; err != nil {
		return err
	}
	for i := range records {
		customers[i].ID = records[i].ID
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func toRecord(c *domain.Customer) customerRecord {
	return customerRecord{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r customerRecord) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
