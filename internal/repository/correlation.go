package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"craftshop-checkout/internal/model"
)

var (
	ErrCorrelationNotFound = errors.New("correlation record not found")
	ErrCorrelationMismatch = errors.New("correlation record does not match")
)

// CorrelationRepository is the durable cross-navigation storage bridging
// session creation and the post-redirect capture. Deliberately narrow: Put
// overwrites the customer's previous record, Consume reads it and clears it
// only when the gateway order id matches. A stale return from an old tab
// therefore cannot destroy the live attempt's record.
type CorrelationRepository interface {
	Put(ctx context.Context, record *model.CorrelationRecord) error
	Consume(ctx context.Context, customerID, gatewayOrderID string) (*model.CorrelationRecord, error)
}

type correlationRepoImpl struct {
	db *gorm.DB
}

func NewCorrelationRepository(db *gorm.DB) CorrelationRepository {
	return &correlationRepoImpl{db: db}
}

func (r *correlationRepoImpl) Put(ctx context.Context, record *model.CorrelationRecord) error {
	record.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			UpdateAll: true,
		}).
		Create(record).Error
}

func (r *correlationRepoImpl) Consume(ctx context.Context, customerID, gatewayOrderID string) (*model.CorrelationRecord, error) {
	var record model.CorrelationRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", customerID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCorrelationNotFound
			}
			return err
		}
		if record.GatewayOrderID != gatewayOrderID {
			return ErrCorrelationMismatch
		}
		return tx.Where("customer_id = ?", customerID).Delete(&model.CorrelationRecord{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}
