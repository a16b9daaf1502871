package dao

import (
	"Inkwell/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type RechargeOrder struct {
	Repo[models.RechargeOrder]
}

func NewRechargeOrder(db *gorm.DB) *RechargeOrder {
	return &RechargeOrder{Repo: NewRepo[models.RechargeOrder](db)}
}

func (d *RechargeOrder) FindBySn(ctx context.Context, sn string) (*models.RechargeOrder, error) {
	return d.FindByWhere(ctx, "order_sn = ?", sn)
}

func (d *RechargeOrder) SetRedirect(ctx context.Context, sn, target string) error {
	_, err := d.UpdateWhere(ctx, map[string]any{"redirect_target": target}, "order_sn = ?", sn)
	return err
}

// MarkPaid 仅 pending 订单可置为 paid，返回受影响行数
func (d *RechargeOrder) MarkPaid(ctx context.Context, sn, transactionID string, paidAt time.Time) (int64, error) {
	return d.UpdateWhere(ctx, map[string]any{
		"status":         models.OrderPaid,
		"transaction_id": nullString(transactionID),
		"paid_at":        paidAt,
	}, "order_sn = ? AND status = ?", sn, models.OrderPending)
}

func (d *RechargeOrder) MarkFailed(ctx context.Context, sn string) (int64, error) {
	return d.UpdateWhere(ctx, map[string]any{"status": models.OrderFailed},
		"order_sn = ? AND status = ?", sn, models.OrderPending)
}

func (d *RechargeOrder) ListByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*models.RechargeOrder, error) {
	var orders []*models.RechargeOrder
	query := d.Db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit + 1).Find(&orders).Error
	return orders, err
}

type SubscriptionOrder struct {
	Repo[models.SubscriptionOrder]
}

func NewSubscriptionOrder(db *gorm.DB) *SubscriptionOrder {
	return &SubscriptionOrder{Repo: NewRepo[models.SubscriptionOrder](db)}
}

func (d *SubscriptionOrder) FindBySn(ctx context.Context, sn string) (*models.SubscriptionOrder, error) {
	return d.FindByWhere(ctx, "order_sn = ?", sn)
}

func (d *SubscriptionOrder) MarkPaid(ctx context.Context, sn, transactionID string, paidAt time.Time) (int64, error) {
	return d.UpdateWhere(ctx, map[string]any{
		"status":         models.OrderPaid,
		"transaction_id": nullString(transactionID),
		"paid_at":        paidAt,
	}, "order_sn = ? AND status = ?", sn, models.OrderPending)
}

func (d *SubscriptionOrder) MarkFailed(ctx context.Context, sn string) (int64, error) {
	return d.UpdateWhere(ctx, map[string]any{"status": models.OrderFailed},
		"order_sn = ? AND status = ?", sn, models.OrderPending)
}

func (d *SubscriptionOrder) ListByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*models.SubscriptionOrder, error) {
	var orders []*models.SubscriptionOrder
	query := d.Db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit + 1).Find(&orders).Error
	return orders, err
}

// Notification 支付回调留痕
type Notification struct {
	Repo[models.PaymentNotification]
}

func NewNotification(db *gorm.DB) *Notification {
	return &Notification{Repo: NewRepo[models.PaymentNotification](db)}
}

func (d *Notification) ListBySn(ctx context.Context, sn string) ([]*models.PaymentNotification, error) {
	var items []*models.PaymentNotification
	err := d.Db.WithContext(ctx).Where("order_sn = ?", sn).Order("id ASC").Find(&items).Error
	return items, err
}

// nullString 空流水号写 NULL，避免唯一索引冲突
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
