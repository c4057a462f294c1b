package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/shopspring/decimal"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type storageLogger interface {
	Printf(format string, args ...interface{})
}

// Storage is the order journal. It records what each run submitted and how it ended.
type Storage struct {
	dataBase *gorm.DB
}

func New(databaseDSN string, storageLogger storageLogger) (*Storage, error) {
	dataBase, err := gorm.Open(Dialector(databaseDSN), &gorm.Config{
		Logger: logger.New(storageLogger, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := dataBase.AutoMigrate(&domain.OrderRecord{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return &Storage{dataBase: dataBase}, nil
}

// Dialector picks postgres for postgres URLs and key=value DSNs, sqlite for anything else.
func Dialector(databaseDSN string) gorm.Dialector {
	if strings.HasPrefix(databaseDSN, "postgres://") || strings.HasPrefix(databaseDSN, "postgresql://") || strings.Contains(databaseDSN, "dbname=") {
		return postgres.New(postgres.Config{
			DSN:                  databaseDSN,
			PreferSimpleProtocol: true,
		})
	}
	return sqlite.Open(strings.TrimPrefix(databaseDSN, "sqlite://"))
}

func (storage *Storage) SaveOrder(ctx context.Context, record *domain.OrderRecord) error {
	return storage.dataBase.WithContext(ctx).Create(record).Error
}

func (storage *Storage) UpdateOrder(ctx context.Context, orderID string, state domain.OrderState, remaining decimal.Decimal) error {
	result := storage.dataBase.WithContext(ctx).
		Model(&domain.OrderRecord{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"state":            string(state),
			"remaining_amount": remaining.String(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", orderID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (storage *Storage) FindOrder(ctx context.Context, orderID string) (domain.OrderRecord, error) {
	var record domain.OrderRecord

	err := storage.dataBase.WithContext(ctx).Where("order_id = ?", orderID).Take(&record).Error

	return record, err
}

// RecentOrders returns up to limit records, newest first.
func (storage *Storage) RecentOrders(ctx context.Context, limit int) ([]domain.OrderRecord, error) {
	var records []domain.OrderRecord

	err := storage.dataBase.WithContext(ctx).Order("id desc").Limit(limit).Find(&records).Error

	return records, err
}

func (storage *Storage) Close() error {
	sqlDB, err := storage.dataBase.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
