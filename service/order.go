package service

import (
	"Inkwell/config"
	"Inkwell/dao"
	"Inkwell/models"
	"Inkwell/pkg/log"
	"Inkwell/pkg/payment"
	"Inkwell/pkg/snowflake"
	"Inkwell/types"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 订单号前缀
const (
	rechargeSnPrefix     = "RC"
	subscriptionSnPrefix = "SUB"
)

type OrderService struct {
	DB              *gorm.DB
	Config          *config.SubscriptionConfig
	Registry        *payment.Registry
	Ledger          ILedgerService
	Reconcile       IReconcileService
	RechargeDAO     *dao.RechargeOrder
	SubscriptionDAO *dao.SubscriptionOrder
}

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	// CreateRechargeOrder 创建充值订单并向渠道下单；渠道失败时订单保持 pending
	CreateRechargeOrder(ctx context.Context, userID uint64, amount decimal.Decimal, method string) (*types.CreateOrderResp, error)
	// CreateSubscriptionOrder 积分购买会员，扣分与开通在同一事务
	CreateSubscriptionOrder(ctx context.Context, userID uint64, period string, now time.Time) (*types.CreateOrderResp, error)
	ListOrders(ctx context.Context, userID uint64, kind string, cursor uint64, limit int) (*types.ListOrders, error)
}

// SubscriptionPrice 订阅周期对应的积分
func (s *OrderService) SubscriptionPrice(period string) (int64, error) {
	switch period {
	case models.PeriodMonthly:
		return s.Config.MonthlyPoints, nil
	case models.PeriodQuarterly:
		return s.Config.QuarterlyPoints, nil
	case models.PeriodYearly:
		return s.Config.YearlyPoints, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
}

func (s *OrderService) CreateRechargeOrder(ctx context.Context, userID uint64, amount decimal.Decimal, method string) (*types.CreateOrderResp, error) {
	m, err := payment.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	gateway, err := s.Registry.Get(m)
	if err != nil {
		return nil, err
	}

	// 金额最多两位小数
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, fmt.Errorf("%w: amount %s", payment.ErrInvalidOrder, amount)
	}
	points := amount.Mul(decimal.NewFromInt(s.Config.PointsPerYuan)).IntPart()
	if points <= 0 {
		return nil, fmt.Errorf("%w: amount %s too small", payment.ErrInvalidOrder, amount)
	}

	order := &models.RechargeOrder{
		OrderSn:       snowflake.GenOrderSn(rechargeSnPrefix),
		UserID:        userID,
		Amount:        amount,
		Points:        points,
		PaymentMethod: string(m),
		Status:        models.OrderPending,
	}
	if err := s.RechargeDAO.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("创建充值订单失败: %w", err)
	}

	target, err := gateway.Initiate(ctx, payment.Order{
		SN:      order.OrderSn,
		Amount:  amount,
		Subject: fmt.Sprintf("积分充值 %d", points),
	})
	if err != nil {
		log.L.Error("initiate payment failed",
			zap.String("order_sn", order.OrderSn),
			zap.String("method", string(m)),
			zap.Error(err))
		return nil, err
	}

	if err := s.RechargeDAO.SetRedirect(ctx, order.OrderSn, target); err != nil {
		return nil, err
	}
	log.L.Info("recharge order created",
		zap.Uint64("user_id", userID),
		zap.String("order_sn", order.OrderSn),
		zap.String("amount", amount.StringFixed(2)))

	return &types.CreateOrderResp{OrderSn: order.OrderSn, RedirectTarget: target}, nil
}

func (s *OrderService) CreateSubscriptionOrder(ctx context.Context, userID uint64, period string, now time.Time) (*types.CreateOrderResp, error) {
	price, err := s.SubscriptionPrice(period)
	if err != nil {
		return nil, err
	}

	sn := snowflake.GenOrderSn(subscriptionSnPrefix)
	var st *Settlement
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.Ledger.WithTx(tx).DeductPoints(ctx, userID, price, "订阅会员: "+period, "subscription:"+sn)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientPoints
		}

		if err := dao.NewSubscriptionOrder(tx).Create(ctx, &models.SubscriptionOrder{
			OrderSn:            sn,
			UserID:             userID,
			Points:             price,
			SubscriptionPeriod: period,
			Status:             models.OrderPending,
		}); err != nil {
			return err
		}

		// 积分已预扣，走与渠道回调相同的结算路径
		st, err = s.Reconcile.SettlePaid(ctx, tx, sn, "points:"+sn, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Reconcile.AfterCommit(ctx, st)
	log.L.Info("subscription order paid with points",
		zap.Uint64("user_id", userID),
		zap.String("order_sn", sn),
		zap.String("period", period))

	return &types.CreateOrderResp{OrderSn: sn}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint64, kind string, cursor uint64, limit int) (*types.ListOrders, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := &types.ListOrders{Orders: make([]types.OrderItem, 0, limit)}

	switch kind {
	case KindSubscription:
		orders, err := s.SubscriptionDAO.ListByUser(ctx, userID, cursor, limit)
		if err != nil {
			return nil, err
		}
		if len(orders) > limit {
			resp.HasMore = true
			orders = orders[:limit]
		}
		for _, o := range orders {
			resp.Orders = append(resp.Orders, types.OrderItem{
				ID:                 o.ID,
				OrderSn:            o.OrderSn,
				Kind:               KindSubscription,
				Points:             o.Points,
				SubscriptionPeriod: o.SubscriptionPeriod,
				Status:             o.Status,
				PaidAt:             formatTime(o.PaidAt),
				CreatedAt:          o.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
	default:
		orders, err := s.RechargeDAO.ListByUser(ctx, userID, cursor, limit)
		if err != nil {
			return nil, err
		}
		if len(orders) > limit {
			resp.HasMore = true
			orders = orders[:limit]
		}
		for _, o := range orders {
			resp.Orders = append(resp.Orders, types.OrderItem{
				ID:            o.ID,
				OrderSn:       o.OrderSn,
				Kind:          KindRecharge,
				Amount:        o.Amount.StringFixed(2),
				Points:        o.Points,
				PaymentMethod: o.PaymentMethod,
				Status:        o.Status,
				PaidAt:        formatTime(o.PaidAt),
				CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
	}

	if resp.HasMore {
		resp.NextCursor = resp.Orders[len(resp.Orders)-1].ID
	}
	return resp, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
