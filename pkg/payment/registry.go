package payment

import (
	"Inkwell/config"
	"Inkwell/pkg/log"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

var shanghai = time.FixedZone("CST", 8*3600)

// Registry 支付方式到网关的映射，启动时构造一次
type Registry struct {
	gateways map[Method]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[Method]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Method()] = g
	}
	return r
}

// NewRegistryFromConfig 按配置构造已启用的渠道，未配置的渠道不注册
func NewRegistryFromConfig(conf *config.PayConfig) (*Registry, error) {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := req.C().SetTimeout(timeout)

	var gateways []Gateway
	if conf.Wechat != nil {
		g, err := NewWechatGateway(conf.Wechat, client)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}
	if conf.Alipay != nil {
		g, err := NewAlipayGateway(conf.Alipay)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}
	if conf.UnionPay != nil {
		g, err := NewUnionPayGateway(conf.UnionPay)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}

	r := NewRegistry(gateways...)
	log.L.Info("payment gateways registered", zap.Any("methods", r.Methods()))
	return r, nil
}

func (r *Registry) Get(method Method) (Gateway, error) {
	g, ok := r.gateways[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	return g, nil
}

func (r *Registry) Methods() []Method {
	out := make([]Method, 0, len(r.gateways))
	for _, m := range Methods {
		if _, ok := r.gateways[m]; ok {
			out = append(out, m)
		}
	}
	return out
}
