package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 订单状态：pending -> paid | failed，后两者为终态
const (
	OrderPending = "pending"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// 订阅周期
const (
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

// RechargeOrder 积分充值订单
type RechargeOrder struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderSn        string          `gorm:"column:order_sn;type:varchar(32);not null;uniqueIndex" json:"order_sn"`
	UserID         uint64          `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"` // 单位：元
	Points         int64           `gorm:"column:points;not null" json:"points"`
	PaymentMethod  string          `gorm:"column:payment_method;type:varchar(16);not null" json:"payment_method"`
	Status         string          `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	TransactionID  *string         `gorm:"column:transaction_id;type:varchar(64);uniqueIndex" json:"transaction_id"`
	RedirectTarget string          `gorm:"column:redirect_target;type:text" json:"redirect_target"`
	PaidAt         *time.Time      `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RechargeOrder) TableName() string {
	return "recharge_orders"
}

// SubscriptionOrder 会员订阅订单，使用积分支付
type SubscriptionOrder struct {
	ID                 uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderSn            string     `gorm:"column:order_sn;type:varchar(32);not null;uniqueIndex" json:"order_sn"`
	UserID             uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Points             int64      `gorm:"column:points;not null" json:"points"`
	SubscriptionPeriod string     `gorm:"column:subscription_period;type:varchar(16);not null" json:"subscription_period"`
	Status             string     `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	TransactionID      *string    `gorm:"column:transaction_id;type:varchar(64);uniqueIndex" json:"transaction_id"`
	PaidAt             *time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SubscriptionOrder) TableName() string {
	return "subscription_orders"
}

// 回调处理结果
const (
	NotifyAccepted  = "accepted"
	NotifyDuplicate = "duplicate"
	NotifyRejected  = "rejected"
	NotifyIgnored   = "ignored"
)

// PaymentNotification 支付回调留痕，无论成功与否都记录，供人工对账
type PaymentNotification struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentMethod  string         `gorm:"column:payment_method;type:varchar(16);not null" json:"payment_method"`
	OrderSn        string         `gorm:"column:order_sn;type:varchar(32);index" json:"order_sn"`
	TransactionID  string         `gorm:"column:transaction_id;type:varchar(64)" json:"transaction_id"`
	ProviderStatus string         `gorm:"column:provider_status;type:varchar(32)" json:"provider_status"`
	Outcome        string         `gorm:"column:outcome;type:varchar(16);not null" json:"outcome"`
	Reason         string         `gorm:"column:reason;size:255" json:"reason"`
	Payload        datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PaymentNotification) TableName() string {
	return "payment_notifications"
}
