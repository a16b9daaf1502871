package handler

import (
	"Inkwell/config"
	"Inkwell/middleware"
	"Inkwell/pkg/context"
	"Inkwell/pkg/response"
	"Inkwell/service"
	"Inkwell/types"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Order struct {
	Config       *config.Config
	OrderService service.IOrderService
}

func (o *Order) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(o.Config.Jwt.Secret))
	limiter := middleware.NewRateLimiter(rate.Every(time.Second), 5)

	order := r.Group("/v1/orders", authorize)
	{
		order.POST("/recharge", limiter.Middleware(), context.Wrap(o.CreateRecharge))
		order.POST("/subscription", limiter.Middleware(), context.Wrap(o.CreateSubscription))
		order.GET("", context.Wrap(o.List))
	}
}

// CreateRecharge 积分充值下单
func (o *Order) CreateRecharge(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateRechargeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return invalidParams(err)
	}

	resp, err := o.OrderService.CreateRechargeOrder(c.Request.Context(), uid, req.Amount, req.PaymentMethod)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

// CreateSubscription 积分开通会员
func (o *Order) CreateSubscription(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateSubscriptionOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return invalidParams(err)
	}

	resp, err := o.OrderService.CreateSubscriptionOrder(c.Request.Context(), uid, req.SubscriptionPeriod, time.Now())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (o *Order) List(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.ListOrdersReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return invalidParams(err)
	}

	resp, err := o.OrderService.ListOrders(c.Request.Context(), uid, req.Kind, req.Cursor, req.Limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
