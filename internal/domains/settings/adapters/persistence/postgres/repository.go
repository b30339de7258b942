package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/billfinity/backoffice/internal/domains/settings/domain"
	"github.com/billfinity/backoffice/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the singleton settings row in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type settingsRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	CompanyName       string    `gorm:"column:company_name;size:255"`
	Address           string    `gorm:"column:address;size:1000"`
	Currency          string    `gorm:"column:currency;size:10"`
	EmailUpdates      bool      `gorm:"column:email_updates"`
	SMSAlerts         bool      `gorm:"column:sms_alerts"`
	LowStockReminders bool      `gorm:"column:low_stock_reminders"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "settings" }

// Get returns the first settings row, seeding defaults when none exists.
func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record settingsRecord
	err := r.db.WithContext(ctx).Order("id ASC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = toRecord(domain.Defaults())
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, errors.New("settings is nil")
	}
	record := toRecord(settings)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
	} else if err := r.db.WithContext(ctx).Model(&settingsRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"company_name":        record.CompanyName,
		"address":             record.Address,
		"currency":            record.Currency,
		"email_updates":       record.EmailUpdates,
		"sms_alerts":          record.SMSAlerts,
		"low_stock_reminders": record.LowStockReminders,
	}).Error; err != nil {
		return nil, err
	}
	var saved settingsRecord
	if err := r.db.WithContext(ctx).First(&saved, "id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	return saved.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres settings repository not configured")
	}
	return nil
}

func toRecord(settings *domain.Settings) settingsRecord {
	return settingsRecord{
		ID:                settings.ID,
		CompanyName:       settings.CompanyName,
		Address:           settings.Address,
		Currency:          settings.Currency,
		EmailUpdates:      settings.EmailUpdates,
		SMSAlerts:         settings.SMSAlerts,
		LowStockReminders: settings.LowStockReminders,
	}
}

func (r settingsRecord) toDomain() *domain.Settings {
	return &domain.Settings{
		ID:                r.ID,
		CompanyName:       r.CompanyName,
		Address:           r.Address,
		Currency:          r.Currency,
		EmailUpdates:      r.EmailUpdates,
		SMSAlerts:         r.SMSAlerts,
		LowStockReminders: r.LowStockReminders,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
