// Package payment 封装微信、支付宝、银联三个支付渠道的下单与回调验签。
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Method string

const (
	Wechat   Method = "wechat"
	Alipay   Method = "alipay"
	UnionPay Method = "unionpay"
)

// Methods 支持的全部支付方式
var Methods = []Method{Wechat, Alipay, UnionPay}

func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Methods {
		if v == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidSignature  = errors.New("invalid notification signature")
)

// GatewayError 渠道通信失败或渠道拒绝下单
type GatewayError struct {
	Method     Method
	StatusCode int
	Msg        string
	Err        error
}

func (e *GatewayError) Error() string {
	s := fmt.Sprintf("%s gateway: %s", e.Method, e.Msg)
	if e.StatusCode != 0 {
		s += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Order 下单所需的最小订单信息，Amount 单位为元
type Order struct {
	SN      string
	Amount  decimal.Decimal
	Subject string
}

func (o Order) Validate() error {
	if o.SN == "" {
		return fmt.Errorf("%w: missing order sn", ErrInvalidOrder)
	}
	if !o.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidOrder)
	}
	return nil
}

// Fen 金额转换为分
func (o Order) Fen() int64 {
	return o.Amount.Shift(2).Round(0).IntPart()
}

type Outcome string

const (
	OutcomePaid       Outcome = "paid"
	OutcomeFailed     Outcome = "failed"
	OutcomeInProgress Outcome = "in_progress"
)

// Notification 验签通过后的回调内容
type Notification struct {
	OrderSN        string
	TransactionID  string
	ProviderStatus string
	Outcome        Outcome
}

// requireFields 回调缺少任一必填字段时按验签失败处理
func requireFields(params map[string]string, keys ...string) error {
	for _, k := range keys {
		if params[k] == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidSignature, k)
		}
	}
	return nil
}

// Payload 渠道回调原文，表单参数或请求体二选一
type Payload struct {
	Params map[string]string
	Body   []byte
}

type Gateway interface {
	Method() Method
	// Initiate 返回跳转地址或二维码链接
	Initiate(ctx context.Context, order Order) (string, error)
	ParseNotification(ctx context.Context, payload Payload) (*Notification, error)
}
