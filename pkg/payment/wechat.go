package payment

import (
	"Inkwell/config"
	"Inkwell/pkg/log"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/clbanning/mxj/v2"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

const wechatUnifiedOrderURL = "https://api.mch.weixin.qq.com/pay/unifiedorder"

// WechatGateway 微信 Native 支付（APIv2，XML 报文）
type WechatGateway struct {
	conf   *config.WechatPayConfig
	client *req.Client
}

func NewWechatGateway(conf *config.WechatPayConfig, client *req.Client) (*WechatGateway, error) {
	if conf.AppID == "" || conf.MchID == "" || conf.APIKey == "" || conf.ServerIP == "" {
		return nil, fmt.Errorf("wechat: app_id, mch_id, api_key and server_ip are required")
	}
	if conf.SignType == "" {
		conf.SignType = SignTypeMD5
	}
	if conf.GatewayURL == "" {
		conf.GatewayURL = wechatUnifiedOrderURL
	}
	return &WechatGateway{conf: conf, client: client}, nil
}

func (w *WechatGateway) Method() Method { return Wechat }

func (w *WechatGateway) sign(params map[string]string) string {
	return keyedSign(Canonical(params, "sign"), w.conf.APIKey, w.conf.SignType)
}

// Initiate 统一下单，返回 code_url
func (w *WechatGateway) Initiate(ctx context.Context, order Order) (string, error) {
	if err := order.Validate(); err != nil {
		return "", err
	}

	params := map[string]string{
		"appid":            w.conf.AppID,
		"mch_id":           w.conf.MchID,
		"nonce_str":        strings.ReplaceAll(uuid.NewString(), "-", ""),
		"body":             order.Subject,
		"out_trade_no":     order.SN,
		"total_fee":        strconv.FormatInt(order.Fen(), 10),
		"spbill_create_ip": w.conf.ServerIP,
		"notify_url":       w.conf.NotifyURL,
		"trade_type":       "NATIVE",
		"sign_type":        w.conf.SignType,
	}
	params["sign"] = w.sign(params)

	body, err := encodeXML(params)
	if err != nil {
		return "", &GatewayError{Method: Wechat, Msg: "encode request", Err: err}
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/xml; charset=utf-8").
		SetBodyBytes(body).
		Post(w.conf.GatewayURL)
	if err != nil {
		return "", &GatewayError{Method: Wechat, Msg: "request unifiedorder", Err: err}
	}
	if resp.StatusCode != 200 {
		return "", &GatewayError{Method: Wechat, StatusCode: resp.StatusCode, Msg: "unexpected status"}
	}

	result, err := decodeXML(resp.Bytes())
	if err != nil {
		return "", &GatewayError{Method: Wechat, Msg: "decode response", Err: err}
	}
	if result["return_code"] != "SUCCESS" || result["result_code"] != "SUCCESS" {
		msg := result["return_msg"]
		if result["err_code_des"] != "" {
			msg = result["err_code_des"]
		}
		log.L.Warn("wechat unifiedorder rejected", zap.String("order_sn", order.SN), zap.String("msg", msg))
		return "", &GatewayError{Method: Wechat, StatusCode: resp.StatusCode, Msg: "rejected: " + msg}
	}
	if result["code_url"] == "" {
		return "", &GatewayError{Method: Wechat, Msg: "missing code_url"}
	}
	return result["code_url"], nil
}

// ParseNotification 解析 XML 回调并校验签名
func (w *WechatGateway) ParseNotification(_ context.Context, payload Payload) (*Notification, error) {
	params := payload.Params
	if len(payload.Body) > 0 {
		decoded, err := decodeXML(payload.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed xml", ErrInvalidSignature)
		}
		params = decoded
	}

	if err := requireFields(params, "sign", "out_trade_no", "transaction_id", "return_code", "result_code"); err != nil {
		return nil, err
	}
	sign := params["sign"]

	signType := params["sign_type"]
	if signType == "" {
		signType = w.conf.SignType
	}
	expected := keyedSign(Canonical(params, "sign"), w.conf.APIKey, signType)
	if !strings.EqualFold(expected, sign) {
		return nil, ErrInvalidSignature
	}

	n := &Notification{
		OrderSN:        params["out_trade_no"],
		TransactionID:  params["transaction_id"],
		ProviderStatus: params["result_code"],
		Outcome:        OutcomeInProgress,
	}
	if params["return_code"] == "SUCCESS" {
		switch params["result_code"] {
		case "SUCCESS":
			n.Outcome = OutcomePaid
		case "FAIL":
			n.Outcome = OutcomeFailed
		}
	}
	return n, nil
}

func encodeXML(params map[string]string) ([]byte, error) {
	m := make(mxj.Map, len(params))
	for k, v := range params {
		m[k] = v
	}
	return m.Xml("xml")
}

// decodeXML 展开 <xml> 根节点下的一层字段
func decodeXML(body []byte) (map[string]string, error) {
	m, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, err
	}
	root, ok := m["xml"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing xml root")
	}
	out := make(map[string]string, len(root))
	for k, v := range root {
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}
