package service

import (
	"Inkwell/models"
	"Inkwell/pkg/payment"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) countOrders(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func TestCreateRechargeOrder(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.order.CreateRechargeOrder(context.Background(), 1, decimal.RequireFromString("12.5"), "WeChat")
	require.NoError(t, err)
	assert.Equal(t, "weixin://pay?sn="+resp.OrderSn, resp.RedirectTarget)

	o := env.findRecharge(t, resp.OrderSn)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, int64(125), o.Points)
	assert.Equal(t, "wechat", o.PaymentMethod)
	assert.Equal(t, resp.RedirectTarget, o.RedirectTarget)

	require.Len(t, env.gateway.initiated, 1)
	assert.Equal(t, int64(1250), env.gateway.initiated[0].Fen())
}

func TestCreateRechargeOrder_RejectedBeforeWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.order.CreateRechargeOrder(ctx, 1, decimal.NewFromInt(10), "paypal")
	assert.ErrorIs(t, err, payment.ErrUnsupportedMethod)

	_, err = env.order.CreateRechargeOrder(ctx, 1, decimal.NewFromInt(10), "unionpay")
	assert.ErrorIs(t, err, payment.ErrUnsupportedMethod)

	for _, amount := range []string{"0", "-1", "1.234", "0.01"} {
		_, err = env.order.CreateRechargeOrder(ctx, 1, decimal.RequireFromString(amount), "wechat")
		assert.ErrorIs(t, err, payment.ErrInvalidOrder, amount)
	}

	assert.Zero(t, env.countOrders(t, &models.RechargeOrder{}))
	assert.Empty(t, env.gateway.initiated)
}

func TestCreateRechargeOrder_GatewayFailureKeepsPending(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.initiateErr = &payment.GatewayError{Method: payment.Wechat, StatusCode: 502, Msg: "bad gateway"}

	_, err := env.order.CreateRechargeOrder(context.Background(), 1, decimal.NewFromInt(10), "wechat")
	var ge *payment.GatewayError
	require.ErrorAs(t, err, &ge)

	var orders []models.RechargeOrder
	require.NoError(t, env.db.Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderPending, orders[0].Status)
	assert.Empty(t, orders[0].RedirectTarget)
}

func TestCreateSubscriptionOrder(t *testing.T) {
	env := newTestEnv(t)
	env.seedPoints(t, 1, 150)

	resp, err := env.order.CreateSubscriptionOrder(context.Background(), 1, models.PeriodMonthly, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, resp.RedirectTarget)

	var o models.SubscriptionOrder
	require.NoError(t, env.db.Where("order_sn = ?", resp.OrderSn).First(&o).Error)
	assert.Equal(t, models.OrderPaid, o.Status)
	require.NotNil(t, o.TransactionID)
	assert.Equal(t, "points:"+resp.OrderSn, *o.TransactionID)

	p := env.profile(t, 1)
	assert.Equal(t, int64(50), p.Points)
	assert.True(t, p.IsSubscribed)
	sameDay(t, day(30), p.SubscriptionEndDate)

	records := env.records(t, 1)
	require.Len(t, records, 2)
	assert.Equal(t, int64(-100), records[1].Points)
	env.requireLedgerConsistent(t, 1)

	assert.Equal(t, 1, env.notifier.count())
}

func TestCreateSubscriptionOrder_Insufficient(t *testing.T) {
	env := newTestEnv(t)
	env.seedPoints(t, 1, 90)

	_, err := env.order.CreateSubscriptionOrder(context.Background(), 1, models.PeriodMonthly, fixedNow)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	assert.Zero(t, env.countOrders(t, &models.SubscriptionOrder{}))
	p := env.profile(t, 1)
	assert.Equal(t, int64(90), p.Points)
	assert.False(t, p.IsSubscribed)
	assert.Zero(t, env.notifier.count())
}

func TestCreateSubscriptionOrder_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.order.CreateSubscriptionOrder(context.Background(), 1, "weekly", fixedNow)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		env.rechargeOrder(t, 1, "1")
	}
	env.rechargeOrder(t, 2, "1")

	page, err := env.order.ListOrders(ctx, 1, KindRecharge, 0, 2)
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "1.00", page.Orders[0].Amount)

	next, err := env.order.ListOrders(ctx, 1, KindRecharge, page.NextCursor, 2)
	require.NoError(t, err)
	assert.Len(t, next.Orders, 1)
	assert.False(t, next.HasMore)

	subs, err := env.order.ListOrders(ctx, 1, KindSubscription, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, subs.Orders)
}
