package service

import (
	"Inkwell/dao"
	"Inkwell/models"
	"Inkwell/pkg/log"
	"Inkwell/pkg/payment"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var reconcileTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "inkwell_payment_notifications_total",
		Help: "Payment notifications by method and outcome",
	},
	[]string{"method", "outcome"},
)

func init() {
	prometheus.MustRegister(reconcileTotal)
}

// 订单类型
const (
	KindRecharge     = "recharge"
	KindSubscription = "subscription"
)

// Settlement 一次 pending -> paid 的结算结果
type Settlement struct {
	Kind      string
	OrderSn   string
	UserID    uint64
	Duplicate bool

	// 仅订阅订单
	Period  string
	EndDate *time.Time
}

type ReconcileService struct {
	DB              *gorm.DB
	Registry        *payment.Registry
	Ledger          ILedgerService
	Subscription    ISubscriptionService
	Notifier        INotifier
	NotificationDAO *dao.Notification
}

var _ IReconcileService = (*ReconcileService)(nil)

type IReconcileService interface {
	// HandleNotification 验签、定位订单并推进状态，重复通知视为成功
	HandleNotification(ctx context.Context, method string, payload payment.Payload) error
	// SettlePaid 在调用方事务内完成 pending -> paid 及结算
	SettlePaid(ctx context.Context, tx *gorm.DB, orderSn, transactionID string, now time.Time) (*Settlement, error)
	// AfterCommit 事务提交后的通知投递
	AfterCommit(ctx context.Context, st *Settlement)
}

func (s *ReconcileService) HandleNotification(ctx context.Context, method string, payload payment.Payload) (err error) {
	record := &models.PaymentNotification{
		PaymentMethod: method,
		Payload:       payloadJSON(payload),
		Outcome:       models.NotifyAccepted,
	}
	defer func() {
		if err != nil {
			record.Outcome = models.NotifyRejected
			record.Reason = err.Error()
			log.L.Warn("payment notification rejected",
				zap.String("method", method),
				zap.String("order_sn", record.OrderSn),
				zap.Error(err))
		}
		s.record(ctx, record)
	}()

	m, err := payment.ParseMethod(method)
	if err != nil {
		return err
	}
	gateway, err := s.Registry.Get(m)
	if err != nil {
		return err
	}

	n, err := gateway.ParseNotification(ctx, payload)
	if err != nil {
		return err
	}
	record.OrderSn = n.OrderSN
	record.TransactionID = n.TransactionID
	record.ProviderStatus = n.ProviderStatus

	switch n.Outcome {
	case payment.OutcomePaid:
		var st *Settlement
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			st, err = s.SettlePaid(ctx, tx, n.OrderSN, n.TransactionID, time.Now())
			return err
		})
		if err != nil {
			return err
		}
		if st.Duplicate {
			record.Outcome = models.NotifyDuplicate
			log.L.Info("duplicate paid notification", zap.String("order_sn", n.OrderSN))
			return nil
		}
		log.L.Info("order paid",
			zap.String("method", method),
			zap.String("kind", st.Kind),
			zap.String("order_sn", n.OrderSN),
			zap.String("transaction_id", n.TransactionID))
		s.AfterCommit(ctx, st)
		return nil

	case payment.OutcomeFailed:
		changed, err := s.markFailed(ctx, n.OrderSN)
		if err != nil {
			return err
		}
		if !changed {
			record.Outcome = models.NotifyIgnored
		}
		return nil

	default:
		// 等待支付，只确认收到
		if _, err := s.locate(ctx, s.DB, n.OrderSN); err != nil {
			return err
		}
		record.Outcome = models.NotifyIgnored
		return nil
	}
}

func (s *ReconcileService) SettlePaid(ctx context.Context, tx *gorm.DB, orderSn, transactionID string, now time.Time) (*Settlement, error) {
	located, err := s.locate(ctx, tx, orderSn)
	if err != nil {
		return nil, err
	}
	st := &Settlement{Kind: located.kind, OrderSn: orderSn, UserID: located.userID}

	switch located.status {
	case models.OrderPaid:
		st.Duplicate = true
		return st, nil
	case models.OrderFailed:
		return nil, ErrOrderClosed
	}

	var rows int64
	if located.kind == KindRecharge {
		rows, err = dao.NewRechargeOrder(tx).MarkPaid(ctx, orderSn, transactionID, now)
	} else {
		rows, err = dao.NewSubscriptionOrder(tx).MarkPaid(ctx, orderSn, transactionID, now)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettlement, err)
	}
	if rows == 0 {
		// 并发通知已抢先完成状态变更
		again, err := s.locate(ctx, tx, orderSn)
		if err != nil {
			return nil, err
		}
		if again.status == models.OrderPaid {
			st.Duplicate = true
			return st, nil
		}
		return nil, ErrOrderClosed
	}

	switch located.kind {
	case KindRecharge:
		if err := s.Ledger.WithTx(tx).AddPoints(ctx, located.userID, located.points, "积分充值", "recharge:"+orderSn); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSettlement, err)
		}
	case KindSubscription:
		profile, err := s.Subscription.WithTx(tx).Activate(ctx, located.userID, located.period, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSettlement, err)
		}
		st.Period = located.period
		st.EndDate = profile.SubscriptionEndDate
	}
	return st, nil
}

func (s *ReconcileService) AfterCommit(ctx context.Context, st *Settlement) {
	if st == nil || st.Duplicate || st.Kind != KindSubscription || s.Notifier == nil {
		return
	}
	event := &SubscriptionActivated{
		OrderSn:   st.OrderSn,
		UserID:    st.UserID,
		Period:    st.Period,
		Timestamp: time.Now(),
	}
	if st.EndDate != nil {
		event.EndDate = st.EndDate.UTC().Format("2006-01-02")
	}
	if err := s.Notifier.SubscriptionActivated(ctx, event); err != nil {
		log.L.Warn("notify subscription activated failed", zap.String("order_sn", st.OrderSn), zap.Error(err))
	}
}

// markFailed 仅 pending 订单可置为 failed，已是终态时返回 false
func (s *ReconcileService) markFailed(ctx context.Context, orderSn string) (bool, error) {
	located, err := s.locate(ctx, s.DB, orderSn)
	if err != nil {
		return false, err
	}
	if located.status != models.OrderPending {
		return false, nil
	}

	var rows int64
	if located.kind == KindRecharge {
		rows, err = dao.NewRechargeOrder(s.DB).MarkFailed(ctx, orderSn)
	} else {
		rows, err = dao.NewSubscriptionOrder(s.DB).MarkFailed(ctx, orderSn)
	}
	if err != nil {
		return false, err
	}
	if rows > 0 {
		log.L.Info("order failed", zap.String("order_sn", orderSn))
	}
	return rows > 0, nil
}

type locatedOrder struct {
	kind   string
	userID uint64
	status string
	points int64
	period string
}

// locate 先查充值订单，再查订阅订单
func (s *ReconcileService) locate(ctx context.Context, db *gorm.DB, orderSn string) (*locatedOrder, error) {
	rc, err := dao.NewRechargeOrder(db).FindBySn(ctx, orderSn)
	if err == nil {
		return &locatedOrder{kind: KindRecharge, userID: rc.UserID, status: rc.Status, points: rc.Points}, nil
	}
	if !dao.IsNotFound(err) {
		return nil, err
	}

	sub, err := dao.NewSubscriptionOrder(db).FindBySn(ctx, orderSn)
	if dao.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderSn)
	}
	if err != nil {
		return nil, err
	}
	return &locatedOrder{kind: KindSubscription, userID: sub.UserID, status: sub.Status, points: sub.Points, period: sub.SubscriptionPeriod}, nil
}

func (s *ReconcileService) record(ctx context.Context, record *models.PaymentNotification) {
	reconcileTotal.WithLabelValues(record.PaymentMethod, record.Outcome).Inc()
	if s.NotificationDAO == nil {
		return
	}
	// 请求已结束时仍需落库
	if err := s.NotificationDAO.Create(context.WithoutCancel(ctx), record); err != nil {
		log.L.Error("save payment notification failed", zap.String("order_sn", record.OrderSn), zap.Error(err))
	}
}

func payloadJSON(payload payment.Payload) datatypes.JSON {
	var v any = payload.Params
	if len(payload.Params) == 0 {
		v = map[string]string{"body": string(payload.Body)}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// IsRejected 是否属于请求本身不合法
func IsRejected(err error) bool {
	return errors.Is(err, payment.ErrInvalidSignature) ||
		errors.Is(err, payment.ErrUnsupportedMethod) ||
		errors.Is(err, payment.ErrInvalidOrder)
}
