package payment

import (
	"Inkwell/config"
	"context"
	"crypto/rsa"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const unionPayFrontTransURL = "https://gateway.95516.com/gateway/api/frontTransReq.do"

// UnionPayGateway 银联 B2C 网关支付
type UnionPayGateway struct {
	conf       *config.UnionPayConfig
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	now        func() time.Time
}

func NewUnionPayGateway(conf *config.UnionPayConfig) (*UnionPayGateway, error) {
	if conf.MerID == "" {
		return nil, fmt.Errorf("unionpay: mer_id is required")
	}
	priv, err := loadPrivateKey(conf.PrivateKey, conf.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unionpay: load private key: %w", err)
	}
	pub, err := loadPublicKey(conf.PublicKey, conf.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unionpay: load unionpay public key: %w", err)
	}
	if conf.GatewayURL == "" {
		conf.GatewayURL = unionPayFrontTransURL
	}
	return &UnionPayGateway{conf: conf, privateKey: priv, publicKey: pub, now: time.Now}, nil
}

func (u *UnionPayGateway) Method() Method { return UnionPay }

// Initiate 生成携带签名报文的前台交易地址，由用户浏览器跳转提交，不发起网络请求
func (u *UnionPayGateway) Initiate(_ context.Context, order Order) (string, error) {
	if err := order.Validate(); err != nil {
		return "", err
	}

	params := map[string]string{
		"version":      "5.1.0",
		"encoding":     "UTF-8",
		"signMethod":   "01",
		"txnType":      "01",
		"txnSubType":   "01",
		"bizType":      "000201",
		"channelType":  "07",
		"accessType":   "0",
		"merId":        u.conf.MerID,
		"orderId":      order.SN,
		"txnTime":      u.now().In(shanghai).Format("20060102150405"),
		"txnAmt":       strconv.FormatInt(order.Fen(), 10),
		"currencyCode": "156",
		"backUrl":      u.conf.NotifyURL,
		"frontUrl":     u.conf.FrontURL,
	}
	sign, err := rsaSign(u.privateKey, Canonical(params, "signature"))
	if err != nil {
		return "", &GatewayError{Method: UnionPay, Msg: "sign request", Err: err}
	}
	params["signature"] = sign

	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return u.conf.GatewayURL + "?" + values.Encode(), nil
}

// ParseNotification 后台通知验签，respCode 00 成功，03/04/05 为处理中
func (u *UnionPayGateway) ParseNotification(_ context.Context, payload Payload) (*Notification, error) {
	params := payload.Params
	if err := requireFields(params, "signature", "orderId", "queryId", "respCode"); err != nil {
		return nil, err
	}
	if err := rsaVerify(u.publicKey, Canonical(params, "signature"), params["signature"]); err != nil {
		return nil, err
	}

	n := &Notification{
		OrderSN:        params["orderId"],
		TransactionID:  params["queryId"],
		ProviderStatus: params["respCode"],
		Outcome:        OutcomeFailed,
	}
	switch params["respCode"] {
	case "00":
		n.Outcome = OutcomePaid
	case "03", "04", "05":
		n.Outcome = OutcomeInProgress
	}
	return n, nil
}
