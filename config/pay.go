package config

import "time"

// PayConfig 三个支付渠道的配置，启动时构造一次后注入各网关
type PayConfig struct {
	Timeout  time.Duration   `yaml:"timeout"`
	Wechat   *WechatPayConfig `yaml:"wechat"`
	Alipay   *AlipayConfig    `yaml:"alipay"`
	UnionPay *UnionPayConfig  `yaml:"unionpay"`
}

type WechatPayConfig struct {
	AppID      string `yaml:"app_id"`      // 应用ID
	MchID      string `yaml:"mch_id"`      // 商户号
	APIKey     string `yaml:"api_key"`     // APIv2 密钥
	SignType   string `yaml:"sign_type"`   // MD5 / HMAC-SHA256
	GatewayURL string `yaml:"gateway_url"` // 统一下单地址
	NotifyURL  string `yaml:"notify_url"`  // 支付回调URL
	ServerIP   string `yaml:"server_ip"`   // 调用统一下单的服务器出口IP
}

type AlipayConfig struct {
	AppID          string `yaml:"app_id"`
	PrivateKey     string `yaml:"private_key"`      // 应用私钥 PEM
	PrivateKeyPath string `yaml:"private_key_path"` // 或私钥文件路径
	PublicKey      string `yaml:"alipay_public_key"`
	PublicKeyPath  string `yaml:"alipay_public_key_path"`
	GatewayURL     string `yaml:"gateway_url"`
	NotifyURL      string `yaml:"notify_url"`
	ReturnURL      string `yaml:"return_url"`
}

type UnionPayConfig struct {
	MerID          string `yaml:"mer_id"` // 商户号
	PrivateKey     string `yaml:"private_key"`
	PrivateKeyPath string `yaml:"private_key_path"`
	PublicKey      string `yaml:"unionpay_public_key"`
	PublicKeyPath  string `yaml:"unionpay_public_key_path"`
	GatewayURL     string `yaml:"gateway_url"`
	NotifyURL      string `yaml:"notify_url"`
	FrontURL       string `yaml:"front_url"`
}

func ProvidePayConfig(cfg *Config) *PayConfig {
	return cfg.Pay
}
