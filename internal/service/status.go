package service

import (
	"errors"
	"time"

	"neighborly-backend/internal/models"

	"gorm.io/gorm"
)

// OrderLifecycle advances an order's status and appends the matching
// tracking row. The two writes share one transaction so Order.Status never
// drifts from the newest tracking entry.
type OrderLifecycle struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderLifecycle(db *gorm.DB) *OrderLifecycle {
	return &OrderLifecycle{db: db, now: time.Now}
}

// UpdateStatus sets the order's status on behalf of actor. 'confirmed'
// stamps ConfirmedAt, 'delivered' stamps ActualDeliveryTime. Terminal
// statuses (delivered, cancelled, refunded) reject further transitions.
func (l *OrderLifecycle) UpdateStatus(orderID uint, newStatus, message string, actor Actor) (*models.Order, error) {
	if !models.OrderStatuses[newStatus] {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Shop").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !CanManageOrder(actor, &order) {
			return ErrForbidden
		}
		if models.TerminalOrderStatuses[order.Status] {
			return ErrTerminalStatus
		}

		now := l.now()
		updates := map[string]interface{}{"status": newStatus}
		order.Status = newStatus
		switch newStatus {
		case models.OrderStatusConfirmed:
			updates["confirmed_at"] = now
			order.ConfirmedAt = &now
		case models.OrderStatusDelivered:
			updates["actual_delivery_time"] = now
			order.ActualDeliveryTime = &now
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}

		actorID := actor.ID
		tracking := models.OrderTracking{
			OrderID:     order.ID,
			Status:      newStatus,
			Message:     message,
			CreatedByID: &actorID,
		}
		return tx.Create(&tracking).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// Track returns the order identified by its opaque UID together with its
// full tracking history, newest first.
func (l *OrderLifecycle) Track(orderUID string, actor Actor) (*models.Order, []models.OrderTracking, error) {
	var order models.Order
	err := l.db.Preload("Shop").Preload("Items").Preload("Items.Product").
		Where("order_uid = ?", orderUID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if !CanViewOrder(actor, &order) {
		return nil, nil, ErrForbidden
	}

	var tracking []models.OrderTracking
	if err := l.db.Where("order_id = ?", order.ID).Order("created_at desc, id desc").Find(&tracking).Error; err != nil {
		return nil, nil, err
	}
	return &order, tracking, nil
}
