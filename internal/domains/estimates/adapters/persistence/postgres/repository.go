package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	customerpostgres "github.com/verdavida/lawncare/internal/domains/customers/adapters/persistence/postgres"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/ports"
	platformpostgres "github.com/verdavida/lawncare/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists estimates and their line items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type estimateRecord struct {
	ID              int64      `gorm:"primaryKey;column:id"`
	EstimateNumber  string     `gorm:"column:estimate_number;size:20;not null;uniqueIndex"`
	CustomerID      int64      `gorm:"column:customer_id;not null;index"`
	EstimateDate    time.Time  `gorm:"column:estimate_date;not null;index"`
	ExpirationDate  time.Time  `gorm:"column:expiration_date;not null"`
	Status          string     `gorm:"column:status;size:20;not null;index"`
	Notes           string     `gorm:"column:notes;size:2000"`
	Terms           string     `gorm:"column:terms;size:2000"`
	ScheduledDate   *time.Time `gorm:"column:scheduled_date"`
	CompletedDate   *time.Time `gorm:"column:completed_date"`
	CompletionNotes string     `gorm:"column:completion_notes;size:2000"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (estimateRecord) TableName() string { return "estimates" }

type lineItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	EstimateID  int64           `gorm:"column:estimate_id;not null;index"`
	ServiceID   *int64          `gorm:"column:service_id"`
	EquipmentID *int64          `gorm:"column:equipment_id"`
	Description string          `gorm:"column:description;size:500;not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(18,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(18,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
}

func (lineItemRecord) TableName() string { return "estimate_line_items" }

// lineItemRow is a line item joined with its catalog names.
type lineItemRow struct {
	lineItemRecord
	ServiceName   *string `gorm:"column:service_name"`
	EquipmentName *string `gorm:"column:equipment_name"`
}

func (r *Repository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(ctx, &gormTx{db: gtx})
	})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Estimate, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record estimateRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	out, err := r.hydrate(ctx, []estimateRecord{record})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *Repository) Update(ctx context.Context, estimate *domain.Estimate, from domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if estimate == nil {
		return errors.New("estimate is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&estimateRecord{}).
		Where("id = ? AND status = ?", estimate.ID, string(from)).
		Updates(map[string]any{
			"status":           string(estimate.Status),
			"scheduled_date":   estimate.ScheduledDate,
			"completed_date":   estimate.CompletedDate,
			"completion_notes": estimate.CompletionNotes,
			"updated_at":       estimate.UpdatedAt,
		})
	if result.Error != nil {
		if platformpostgres.ClassifyError(result.Error) == platformpostgres.ErrorClassConcurrency {
			return ports.ErrConcurrencyConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&estimateRecord{}).Where("id = ?", estimate.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrConcurrencyConflict
	}
	return nil
}

func (r *Repository) ListJobs(ctx context.Context, filter ports.JobFilter) ([]*domain.Estimate, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Model(&estimateRecord{}).
		Joins("JOIN customers ON customers.id = estimates.customer_id").
		Where("estimates.status <> ?", string(domain.StatusCancelled))
	switch filter.Status {
	case ports.JobStatusOpen:
		query = query.Where("estimates.status <> ?", string(domain.StatusCompleted))
	case ports.JobStatusCompleted:
		query = query.Where("estimates.status = ?", string(domain.StatusCompleted))
	}
	if filter.CustomerID != nil {
		query = query.Where("estimates.customer_id = ?", *filter.CustomerID)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		query = query.Where(
			"estimates.estimate_number ILIKE ? OR customers.first_name ILIKE ? OR customers.last_name ILIKE ? OR customers.email ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	var records []estimateRecord
	if err := query.Select("estimates.*").
		Order("estimates.estimate_date DESC").
		Order("estimates.id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, records)
}

func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Model(&estimateRecord{}).
		Where("status IN ? AND expiration_date < ?", []string{string(domain.StatusSent), string(domain.StatusViewed)}, now).
		Updates(map[string]any{"status": string(domain.StatusExpired), "updated_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// hydrate attaches customers and line items to the records, preserving record order.
func (r *Repository) hydrate(ctx context.Context, records []estimateRecord) ([]*domain.Estimate, error) {
	if len(records) == 0 {
		return []*domain.Estimate{}, nil
	}
	ids := make([]int64, 0, len(records))
	customerIDs := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
		customerIDs = append(customerIDs, rec.CustomerID)
	}

	var rows []lineItemRow
	err := r.db.WithContext(ctx).
		Table("estimate_line_items AS li").
		Select("li.*, s.name AS service_name, e.name AS equipment_name").
		Joins("LEFT JOIN services s ON s.id = li.service_id").
		Joins("LEFT JOIN equipment e ON e.id = li.equipment_id").
		Where("li.estimate_id IN ?", ids).
		Order("li.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make(map[int64][]domain.LineItem, len(records))
	for _, row := range rows {
		items[row.EstimateID] = append(items[row.EstimateID], row.toDomain())
	}

	customers, err := customerpostgres.NewRepository(r.db).GetByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Estimate, 0, len(records))
	for _, rec := range records {
		e := rec.toDomain(customers[rec.CustomerID])
		e.LineItems = items[rec.ID]
		out = append(out, e)
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres estimate repository not configured")
	}
	return nil
}

// gormTx runs the writes of one estimate creation inside a GORM transaction.
type gormTx struct {
	db *gorm.DB
}

func (tx *gormTx) Customers() ports.CustomerStore {
	return customerpostgres.NewRepository(tx.db)
}

func (tx *gormTx) EstimateNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	err := tx.db.WithContext(ctx).
		Model(&estimateRecord{}).
		Where("estimate_number LIKE ?", escapeLike(prefix)+"%").
		Pluck("estimate_number", &numbers).Error
	return numbers, err
}

func (tx *gormTx) AddEstimate(ctx context.Context, estimate *domain.Estimate) error {
	if estimate == nil {
		return errors.New("estimate is nil")
	}
	if estimate.Customer != nil {
		estimate.CustomerID = estimate.Customer.ID
	}
	record := toEstimateRecord(estimate)
	if err := tx.db.WithContext(ctx).Create(&record).Error; err != nil {
		if platformpostgres.IsUniqueViolation(err) {
			return errors.Join(ports.ErrDuplicateNumber, err)
		}
		return err
	}
	estimate.ID = record.ID
	return nil
}

func (tx *gormTx) AddLineItems(ctx context.Context, estimateID int64, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	records := make([]lineItemRecord, 0, len(items))
	for _, item := range items {
		rec := toLineItemRecord(item)
		rec.EstimateID = estimateID
		records = append(records, rec)
	}
	if err := tx.db.WithContext(ctx).Create(&records).Error; err != nil {
		return err
	}
	for i := range records {
		items[i].ID = records[i].ID
		items[i].EstimateID = estimateID
		items[i].CreatedAt = records[i].CreatedAt
	}
	return nil
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func toEstimateRecord(e *domain.Estimate) estimateRecord {
	return estimateRecord{
		ID:              e.ID,
		EstimateNumber:  e.Number,
		CustomerID:      e.CustomerID,
		EstimateDate:    e.EstimateDate,
		ExpirationDate:  e.ExpirationDate,
		Status:          string(e.Status),
		Notes:           e.Notes,
		Terms:           e.Terms,
		ScheduledDate:   e.ScheduledDate,
		CompletedDate:   e.CompletedDate,
		CompletionNotes: e.CompletionNotes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (r estimateRecord) toDomain(customer *customerdomain.Customer) *domain.Estimate {
	return &domain.Estimate{
		ID:              r.ID,
		Number:          r.EstimateNumber,
		CustomerID:      r.CustomerID,
		Customer:        customer,
		EstimateDate:    r.EstimateDate,
		ExpirationDate:  r.ExpirationDate,
		Status:          domain.Status(r.Status),
		Notes:           r.Notes,
		Terms:           r.Terms,
		ScheduledDate:   r.ScheduledDate,
		CompletedDate:   r.CompletedDate,
		CompletionNotes: r.CompletionNotes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toLineItemRecord(li domain.LineItem) lineItemRecord {
	return lineItemRecord{
		ID:          li.ID,
		EstimateID:  li.EstimateID,
		ServiceID:   li.ServiceID,
		EquipmentID: li.EquipmentID,
		Description: li.Description,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		LineTotal:   li.LineTotal,
		CreatedAt:   li.CreatedAt,
	}
}

func (r lineItemRow) toDomain() domain.LineItem {
	li := domain.LineItem{
		ID:          r.ID,
		EstimateID:  r.EstimateID,
		ServiceID:   r.ServiceID,
		EquipmentID: r.EquipmentID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		LineTotal:   r.LineTotal,
		CreatedAt:   r.CreatedAt,
	}
	if r.ServiceName != nil {
		li.ServiceName = *r.ServiceName
	}
	if r.EquipmentName != nil {
		li.EquipmentName = *r.EquipmentName
	}
	return li
}
