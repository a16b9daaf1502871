package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	params := map[string]string{
		"b":         "2",
		"a":         "1",
		"empty":     "",
		"sign":      "xxx",
		"sign_type": "RSA2",
	}
	assert.Equal(t, "a=1&b=2&sign_type=RSA2", Canonical(params, "sign"))
	assert.Equal(t, "a=1&b=2", Canonical(params, "sign", "sign_type"))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" Alipay ")
	assert.NoError(t, err)
	assert.Equal(t, Alipay, m)

	_, err = ParseMethod("paypal")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestOrderValidate(t *testing.T) {
	assert.ErrorIs(t, Order{Amount: decimal.NewFromInt(1)}.Validate(), ErrInvalidOrder)
	assert.ErrorIs(t, Order{SN: "RC1", Amount: decimal.Zero}.Validate(), ErrInvalidOrder)
	assert.ErrorIs(t, Order{SN: "RC1", Amount: decimal.NewFromInt(-3)}.Validate(), ErrInvalidOrder)
	assert.NoError(t, Order{SN: "RC1", Amount: decimal.RequireFromString("0.01")}.Validate())
}

func TestOrderFen(t *testing.T) {
	assert.Equal(t, int64(1999), Order{Amount: decimal.RequireFromString("19.99")}.Fen())
	assert.Equal(t, int64(5000), Order{Amount: decimal.NewFromInt(50)}.Fen())
}

func TestRegistry(t *testing.T) {
	w := &WechatGateway{}
	r := NewRegistry(w)

	g, err := r.Get(Wechat)
	assert.NoError(t, err)
	assert.Same(t, w, g)

	_, err = r.Get(UnionPay)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Equal(t, []Method{Wechat}, r.Methods())
}
