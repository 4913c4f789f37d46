package migrations

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&customerRecord{},
		&serviceRecord{},
		&equipmentRecord{},
		&estimateRecord{},
		&lineItemRecord{},
		&idempotencyKeyRecord{},
	); err != nil {
		return err
	}
	for _, fk := range foreignKeys {
		if err := ensureForeignKey(db, fk); err != nil {
			return err
		}
	}
	return nil
}

type foreignKey struct {
	name, table, column, references, onDelete string
}

var foreignKeys = []foreignKey{
	{"fk_estimates_customer", "estimates", "customer_id", "customers(id)", "RESTRICT"},
	{"fk_line_items_estimate", "estimate_line_items", "estimate_id", "estimates(id)", "CASCADE"},
	{"fk_line_items_service", "estimate_line_items", "service_id", "services(id)", "SET NULL"},
	{"fk_line_items_equipment", "estimate_line_items", "equipment_id", "equipment(id)", "SET NULL"},
	{"fk_idempotency_keys_estimate", "estimate_idempotency_keys", "estimate_id", "estimates(id)", "CASCADE"},
}

func ensureForeignKey(db *gorm.DB, fk foreignKey) error {
	var exists bool
	if err := db.Raw("SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)", fk.name).Scan(&exists).Error; err != nil {
		return err
	}
	if exists {
		return nil
	}
	return db.Exec(fmt.Sprintf(
		"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s ON DELETE %s",
		fk.table, fk.name, fk.column, fk.references, fk.onDelete,
	)).Error
}

// Customer schema mirrors the customers Postgres adapter.
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

// Service schema mirrors the catalog Postgres adapter.
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

// Estimate schema mirrors the estimates Postgres adapter.
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

type idempotencyKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:64;not null"`
	EstimateID  int64     `gorm:"column:estimate_id;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyKeyRecord) TableName() string { return "estimate_idempotency_keys" }
