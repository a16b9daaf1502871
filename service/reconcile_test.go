package service

import (
	"Inkwell/models"
	"Inkwell/pkg/payment"
	"Inkwell/types"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func notify(sn, status string) payment.Payload {
	return payment.Payload{Params: map[string]string{
		"sign":   "valid",
		"sn":     sn,
		"tx":     "TX-" + sn,
		"status": status,
	}}
}

func (e *testEnv) rechargeOrder(t *testing.T, userID uint64, amount string) *types.CreateOrderResp {
	t.Helper()
	resp, err := e.order.CreateRechargeOrder(context.Background(), userID, decimal.RequireFromString(amount), "wechat")
	require.NoError(t, err)
	return resp
}

func (e *testEnv) findRecharge(t *testing.T, sn string) *models.RechargeOrder {
	t.Helper()
	var o models.RechargeOrder
	require.NoError(t, e.db.Where("order_sn = ?", sn).First(&o).Error)
	return &o
}

func (e *testEnv) notifications(t *testing.T) []models.PaymentNotification {
	t.Helper()
	var items []models.PaymentNotification
	require.NoError(t, e.db.Order("id ASC").Find(&items).Error)
	return items
}

func TestHandleNotification_RechargePaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.rechargeOrder(t, 1, "10")

	require.NoError(t, env.reconcile.HandleNotification(ctx, "wechat", notify(order.OrderSn, "paid")))

	o := env.findRecharge(t, order.OrderSn)
	assert.Equal(t, models.OrderPaid, o.Status)
	require.NotNil(t, o.TransactionID)
	assert.Equal(t, "TX-"+order.OrderSn, *o.TransactionID)
	assert.NotNil(t, o.PaidAt)

	assert.Equal(t, int64(100), env.profile(t, 1).Points)
	records := env.records(t, 1)
	require.Len(t, records, 1)
	assert.Equal(t, "recharge:"+order.OrderSn, records[0].SourceID)

	items := env.notifications(t)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotifyAccepted, items[0].Outcome)
	assert.Contains(t, string(items[0].Payload), order.OrderSn)

	// 充值订单不会触发订阅通知
	assert.Zero(t, env.notifier.count())
}

func TestHandleNotification_DuplicateSettlesOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.rechargeOrder(t, 1, "10")

	require.NoError(t, env.reconcile.HandleNotification(ctx, "wechat", notify(order.OrderSn, "paid")))
	require.NoError(t, env.reconcile.HandleNotification(ctx, "wechat", notify(order.OrderSn, "paid")))

	assert.Equal(t, int64(100), env.profile(t, 1).Points)
	assert.Len(t, env.records(t, 1), 1)

	items := env.notifications(t)
	require.Len(t, items, 2)
	assert.Equal(t, models.NotifyDuplicate, items[1].Outcome)
}

func TestHandleNotification_ConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)
	order := env.rechargeOrder(t, 1, "10")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, env.reconcile.HandleNotification(context.Background(), "wechat", notify(order.OrderSn, "paid")))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), env.profile(t, 1).Points)
	assert.Len(t, env.records(t, 1), 1)
	env.requireLedgerConsistent(t, 1)
}

func TestHandleNotification_InvalidSignature(t *testing.T) {
	env := newTestEnv(t)
	order := env.rechargeOrder(t, 1, "10")

	payload := notify(order.OrderSn, "paid")
	payload.Params["sign"] = "forged"
	err := env.reconcile.HandleNotification(context.Background(), "wechat", payload)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	assert.True(t, IsRejected(err))

	assert.Equal(t, models.OrderPending, env.findRecharge(t, order.OrderSn).Status)
	assert.Zero(t, env.profile(t, 1).Points)

	items := env.notifications(t)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotifyRejected, items[0].Outcome)
	assert.NotEmpty(t, items[0].Reason)
}

func TestHandleNotification_UnsupportedMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.reconcile.HandleNotification(ctx, "paypal", notify("RC1", "paid"))
	assert.ErrorIs(t, err, payment.ErrUnsupportedMethod)

	// 合法名称但未注册
	err = env.reconcile.HandleNotification(ctx, "alipay", notify("RC1", "paid"))
	assert.ErrorIs(t, err, payment.ErrUnsupportedMethod)
}

func TestHandleNotification_OrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.reconcile.HandleNotification(context.Background(), "wechat", notify("RC404", "paid"))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestHandleNotification_FailedIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.rechargeOrder(t, 1, "10")

	require.NoError(t, env.reconcile.HandleNotification(ctx, "wechat", notify(order.OrderSn, "failed")))
	assert.Equal(t, models.OrderFailed, env.findRecharge(t, order.OrderSn).Status)

	err := env.reconcile.HandleNotification(ctx, "wechat", notify(order.OrderSn, "paid"))
	assert.ErrorIs(t, err, ErrOrderClosed)
	assert.Equal(t, models.OrderFailed, env.findRecharge(t, order.OrderSn).Status)
	assert.Zero(t, env.profile(t, 1).Points)
}

func TestHandleNotification_FailedAfterPaidIgnored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.rechargeOrder(t, 1, "10")

	require.NoError(t, env.reconcile.HandleNotification(ctx, "wechat", notify(order.OrderSn, "paid")))
	require.NoError(t, env.reconcile.HandleNotification(ctx, "wechat", notify(order.OrderSn, "failed")))

	assert.Equal(t, models.OrderPaid, env.findRecharge(t, order.OrderSn).Status)
	items := env.notifications(t)
	assert.Equal(t, models.NotifyIgnored, items[len(items)-1].Outcome)
}

func TestHandleNotification_InProgress(t *testing.T) {
	env := newTestEnv(t)
	order := env.rechargeOrder(t, 1, "10")

	require.NoError(t, env.reconcile.HandleNotification(context.Background(), "wechat", notify(order.OrderSn, string(payment.OutcomeInProgress))))
	assert.Equal(t, models.OrderPending, env.findRecharge(t, order.OrderSn).Status)
	assert.Zero(t, env.profile(t, 1).Points)
}

type failingLedger struct {
	ILedgerService
}

func (f failingLedger) WithTx(*gorm.DB) ILedgerService { return f }

func (failingLedger) AddPoints(context.Context, uint64, int64, string, string) error {
	return errors.New("disk full")
}

func TestHandleNotification_SettlementFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	order := env.rechargeOrder(t, 1, "10")
	env.reconcile.Ledger = failingLedger{}

	err := env.reconcile.HandleNotification(context.Background(), "wechat", notify(order.OrderSn, "paid"))
	assert.ErrorIs(t, err, ErrSettlement)

	o := env.findRecharge(t, order.OrderSn)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Nil(t, o.TransactionID)
	assert.Zero(t, env.profile(t, 1).Points)
}

func TestHandleNotification_SubscriptionOrder(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.SubscriptionOrder{
		OrderSn:            "SUB1",
		UserID:             1,
		Points:             100,
		SubscriptionPeriod: models.PeriodMonthly,
		Status:             models.OrderPending,
	}).Error)

	require.NoError(t, env.reconcile.HandleNotification(context.Background(), "wechat", notify("SUB1", "paid")))

	p := env.profile(t, 1)
	assert.True(t, p.IsSubscribed)
	require.Equal(t, 1, env.notifier.count())
	assert.Equal(t, "SUB1", env.notifier.events[0].OrderSn)
	assert.Equal(t, models.PeriodMonthly, env.notifier.events[0].Period)
}

func TestHandleNotification_NotifierFailureKeepsState(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errors.New("broker down")
	require.NoError(t, env.db.Create(&models.SubscriptionOrder{
		OrderSn:            "SUB2",
		UserID:             1,
		Points:             100,
		SubscriptionPeriod: models.PeriodMonthly,
		Status:             models.OrderPending,
	}).Error)

	require.NoError(t, env.reconcile.HandleNotification(context.Background(), "wechat", notify("SUB2", "paid")))

	var o models.SubscriptionOrder
	require.NoError(t, env.db.Where("order_sn = ?", "SUB2").First(&o).Error)
	assert.Equal(t, models.OrderPaid, o.Status)
	assert.True(t, env.profile(t, 1).IsSubscribed)
}
