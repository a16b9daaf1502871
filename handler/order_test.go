package handler

import (
	"Inkwell/pkg/payment"
	"Inkwell/pkg/response"
	"Inkwell/service"
	"Inkwell/types"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeOrderService struct {
	err    error
	amount decimal.Decimal
	method string
}

func (f *fakeOrderService) CreateRechargeOrder(_ context.Context, _ uint64, amount decimal.Decimal, method string) (*types.CreateOrderResp, error) {
	f.amount, f.method = amount, method
	if f.err != nil {
		return nil, f.err
	}
	return &types.CreateOrderResp{OrderSn: "RC1", RedirectTarget: "weixin://pay"}, nil
}

func (f *fakeOrderService) CreateSubscriptionOrder(context.Context, uint64, string, time.Time) (*types.CreateOrderResp, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.CreateOrderResp{OrderSn: "SUB1"}, nil
}

func (f *fakeOrderService) ListOrders(context.Context, uint64, string, uint64, int) (*types.ListOrders, error) {
	return &types.ListOrders{}, nil
}

func newOrderRouter(svc service.IOrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	(&Order{Config: testConfig(), OrderService: svc}).RegisterRouter(r.Group("/api"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, 1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRecharge(t *testing.T) {
	svc := &fakeOrderService{}
	r := newOrderRouter(svc)

	w := postJSON(t, r, "/api/v1/orders/recharge", `{"amount":"12.50","payment_method":"alipay"}`)

	var resp types.CreateOrderResp
	assert.Equal(t, 0, decode(t, w, &resp).Code)
	assert.Equal(t, "RC1", resp.OrderSn)
	assert.Equal(t, "alipay", svc.method)
	assert.True(t, svc.amount.Equal(decimal.RequireFromString("12.5")))
}

func TestCreateRecharge_ErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{payment.ErrUnsupportedMethod, response.CodeUnsupportedMethod},
		{payment.ErrInvalidOrder, response.CodeInvalidOrder},
		{&payment.GatewayError{Method: payment.Wechat, Msg: "timeout"}, response.CodeGateway},
	}
	for _, c := range cases {
		r := newOrderRouter(&fakeOrderService{err: c.err})
		w := postJSON(t, r, "/api/v1/orders/recharge", `{"amount":10,"payment_method":"wechat"}`)
		assert.Equal(t, c.code, decode(t, w, nil).Code, c.err.Error())
	}
}

func TestCreateSubscription(t *testing.T) {
	r := newOrderRouter(&fakeOrderService{err: service.ErrInsufficientPoints})
	w := postJSON(t, r, "/api/v1/orders/subscription", `{"subscription_period":"monthly"}`)
	assert.Equal(t, response.CodeInsufficientPoints, decode(t, w, nil).Code)

	w = postJSON(t, r, "/api/v1/orders/subscription", `{"subscription_period":"weekly"}`)
	assert.Equal(t, response.CodeInvalidParams, decode(t, w, nil).Code)
}
