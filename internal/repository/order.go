package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"craftshop-checkout/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	SetGatewaySession(ctx context.Context, orderNumber, gatewayOrderID string) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, orderNumber, captureID, payerID string) error
	GetOrderItems(ctx context.Context, orderNumber string) ([]*model.OrderItem, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) SetGatewaySession(ctx context.Context, orderNumber, gatewayOrderID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_number = ?", orderNumber).
		Updates(map[string]interface{}{
			"gateway_order_id": gatewayOrderID,
			"updated_at":       time.Now(),
		}).Error
}

// MarkCompleted finalizes an order after a successful capture. The status
// guard keeps a duplicate or late capture from rewriting an already
// completed order.
func (r *orderRepoImpl) MarkCompleted(ctx context.Context, tx *gorm.DB, orderNumber, captureID, payerID string) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where(`
			order_number = ?
			AND status = ?
		`,
			orderNumber,
			model.OrderStatusCreated,
		).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusCompleted,
			"capture_id": captureID,
			"payer_id":   payerID,
			"updated_at": time.Now(),
		}).Error
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderNumber string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepoImpl) ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
