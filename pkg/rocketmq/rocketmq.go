package rocketmq

import (
	"Inkwell/config"
	"Inkwell/pkg/log"
	"context"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

type Producer struct {
	p rocketmq.Producer
}

func init() {
	rlog.SetLogLevel("error")
}

// InitProducer 未配置 nameserver 时返回 nil，调用方按未启用处理
func InitProducer(cfg *config.RocketMQConfig) (*Producer, error) {
	if cfg == nil || len(cfg.NameServer) == 0 {
		log.L.Warn("rocketmq nameserver not configured, producer disabled")
		return nil, nil
	}

	retry := cfg.Producer.Retry
	if retry <= 0 {
		retry = 2
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(retry),
	)
	if err != nil {
		return nil, fmt.Errorf("new producer: %w", err)
	}
	if err = p.Start(); err != nil {
		return nil, fmt.Errorf("start producer: %w", err)
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer))

	return &Producer{p: p}, nil
}

func (p *Producer) SendMsg(ctx context.Context, topic string, body []byte) error {
	res, err := p.p.SendSync(ctx, primitive.NewMessage(topic, body))
	if err != nil {
		return err
	}
	if res.Status != primitive.SendOK {
		return fmt.Errorf("send message status %d", res.Status)
	}
	return nil
}

func (p *Producer) Shutdown() error {
	return p.p.Shutdown()
}
