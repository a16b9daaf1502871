package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App          *App                `json:"app" yaml:"app"`
	Redis        *Redis              `json:"redis" yaml:"redis"`
	MySQL        *MySQL              `json:"mysql" yaml:"mysql"`
	Jwt          *Jwt                `json:"jwt" yaml:"jwt"`
	Server       *Server             `json:"server" yaml:"server"`
	RocketMQ     *RocketMQConfig     `json:"rocketmq" yaml:"rocketmq"`
	Pay          *PayConfig          `json:"pay" yaml:"pay"`
	Subscription *SubscriptionConfig `json:"subscription" yaml:"subscription"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

// secrets 允许通过环境变量覆盖 yaml 中的敏感配置，前缀 INKWELL_
type secrets struct {
	MySQLPassword      string `envconfig:"MYSQL_PASSWORD"`
	RedisPassword      string `envconfig:"REDIS_PASSWORD"`
	JwtSecret          string `envconfig:"JWT_SECRET"`
	WechatAPIKey       string `envconfig:"WECHAT_API_KEY"`
	AlipayPrivateKey   string `envconfig:"ALIPAY_PRIVATE_KEY"`
	UnionPayPrivateKey string `envconfig:"UNIONPAY_PRIVATE_KEY"`
}

func New(filename string) *Config {
	conf, err := Load(filename)
	if err != nil {
		panic(err)
	}
	return conf
}

// Load 读取 yaml 配置并叠加环境变量
func Load(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return nil, fmt.Errorf("解析 %s 读取错误: %w", filename, err)
	}
	conf.fill()

	var env secrets
	if err := envconfig.Process("inkwell", &env); err != nil {
		return nil, fmt.Errorf("读取环境变量失败: %w", err)
	}
	conf.overlay(&env)

	return &conf, nil
}

// fill 补齐缺省的配置段
func (c *Config) fill() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Server == nil {
		c.Server = &Server{Http: 8080}
	}
	if c.MySQL == nil {
		c.MySQL = &MySQL{}
	}
	if c.Redis == nil {
		c.Redis = &Redis{}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	if c.RocketMQ == nil {
		c.RocketMQ = &RocketMQConfig{}
	}
	if c.Pay == nil {
		c.Pay = &PayConfig{}
	}
	if c.Subscription == nil {
		c.Subscription = &SubscriptionConfig{}
	}
	c.Subscription.fill()
}

func (c *Config) overlay(env *secrets) {
	if env.MySQLPassword != "" {
		c.MySQL.Password = env.MySQLPassword
	}
	if env.RedisPassword != "" {
		c.Redis.Password = env.RedisPassword
	}
	if env.JwtSecret != "" {
		c.Jwt.Secret = env.JwtSecret
	}
	if env.WechatAPIKey != "" && c.Pay.Wechat != nil {
		c.Pay.Wechat.APIKey = env.WechatAPIKey
	}
	if env.AlipayPrivateKey != "" && c.Pay.Alipay != nil {
		c.Pay.Alipay.PrivateKey = env.AlipayPrivateKey
	}
	if env.UnionPayPrivateKey != "" && c.Pay.UnionPay != nil {
		c.Pay.UnionPay.PrivateKey = env.UnionPayPrivateKey
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
