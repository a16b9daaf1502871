package types

import "github.com/shopspring/decimal"

type CreateRechargeOrderReq struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"` // 单位：元
	PaymentMethod string          `json:"payment_method" binding:"required"`
}

type CreateSubscriptionOrderReq struct {
	SubscriptionPeriod string `json:"subscription_period" binding:"required,oneof=monthly quarterly yearly"`
}

type CreateOrderResp struct {
	OrderSn        string `json:"order_sn"`
	RedirectTarget string `json:"redirect_target"`
}

type ListOrdersReq struct {
	Kind   string `form:"kind,default=recharge" binding:"oneof=recharge subscription"`
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit,default=10" binding:"min=1,max=100"`
}

type OrderItem struct {
	ID                 uint64 `json:"id"`
	OrderSn            string `json:"order_sn"`
	Kind               string `json:"kind"`
	Amount             string `json:"amount,omitempty"`
	Points             int64  `json:"points"`
	PaymentMethod      string `json:"payment_method,omitempty"`
	SubscriptionPeriod string `json:"subscription_period,omitempty"`
	Status             string `json:"status"`
	PaidAt             string `json:"paid_at,omitempty"`
	CreatedAt          string `json:"created_at"`
}

type ListOrders struct {
	Orders     []OrderItem `json:"orders"`
	NextCursor uint64      `json:"next_cursor"`
	HasMore    bool        `json:"has_more"`
}
