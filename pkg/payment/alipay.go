package payment

import (
	"Inkwell/config"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const alipayGatewayURL = "https://openapi.alipay.com/gateway.do"

// AlipayGateway 支付宝电脑网站支付，RSA2 签名
type AlipayGateway struct {
	conf       *config.AlipayConfig
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	now        func() time.Time
}

func NewAlipayGateway(conf *config.AlipayConfig) (*AlipayGateway, error) {
	if conf.AppID == "" {
		return nil, fmt.Errorf("alipay: app_id is required")
	}
	priv, err := loadPrivateKey(conf.PrivateKey, conf.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("alipay: load private key: %w", err)
	}
	pub, err := loadPublicKey(conf.PublicKey, conf.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("alipay: load alipay public key: %w", err)
	}
	if conf.GatewayURL == "" {
		conf.GatewayURL = alipayGatewayURL
	}
	return &AlipayGateway{conf: conf, privateKey: priv, publicKey: pub, now: time.Now}, nil
}

func (a *AlipayGateway) Method() Method { return Alipay }

// Initiate 生成带签名的 alipay.trade.page.pay 跳转地址，不发起网络请求
func (a *AlipayGateway) Initiate(_ context.Context, order Order) (string, error) {
	if err := order.Validate(); err != nil {
		return "", err
	}

	biz, err := json.Marshal(map[string]string{
		"out_trade_no": order.SN,
		"product_code": "FAST_INSTANT_TRADE_PAY",
		"total_amount": order.Amount.StringFixed(2),
		"subject":      order.Subject,
	})
	if err != nil {
		return "", err
	}

	params := map[string]string{
		"app_id":      a.conf.AppID,
		"method":      "alipay.trade.page.pay",
		"format":      "JSON",
		"charset":     "utf-8",
		"sign_type":   "RSA2",
		"timestamp":   a.now().In(shanghai).Format("2006-01-02 15:04:05"),
		"version":     "1.0",
		"notify_url":  a.conf.NotifyURL,
		"return_url":  a.conf.ReturnURL,
		"biz_content": string(biz),
	}
	sign, err := rsaSign(a.privateKey, Canonical(params, "sign"))
	if err != nil {
		return "", &GatewayError{Method: Alipay, Msg: "sign request", Err: err}
	}
	params["sign"] = sign

	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return a.conf.GatewayURL + "?" + values.Encode(), nil
}

// ParseNotification 异步通知验签，sign 与 sign_type 不参与签名
func (a *AlipayGateway) ParseNotification(_ context.Context, payload Payload) (*Notification, error) {
	params := payload.Params
	if err := requireFields(params, "sign", "out_trade_no", "trade_no", "trade_status"); err != nil {
		return nil, err
	}
	if err := rsaVerify(a.publicKey, Canonical(params, "sign", "sign_type"), params["sign"]); err != nil {
		return nil, err
	}
	if appID := params["app_id"]; appID != "" && appID != a.conf.AppID {
		return nil, fmt.Errorf("%w: app_id mismatch", ErrInvalidSignature)
	}

	status := params["trade_status"]
	n := &Notification{
		OrderSN:        params["out_trade_no"],
		TransactionID:  params["trade_no"],
		ProviderStatus: status,
	}
	switch status {
	case "TRADE_SUCCESS", "TRADE_FINISHED":
		n.Outcome = OutcomePaid
	case "TRADE_CLOSED":
		n.Outcome = OutcomeFailed
	default:
		// WAIT_BUYER_PAY 及未知状态不改变订单
		n.Outcome = OutcomeInProgress
	}
	return n, nil
}
