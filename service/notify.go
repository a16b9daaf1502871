package service

import (
	"Inkwell/config"
	"Inkwell/pkg/log"
	"Inkwell/pkg/rocketmq"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// SubscriptionActivated 订阅开通事件
type SubscriptionActivated struct {
	OrderSn   string    `json:"order_sn"`
	UserID    uint64    `json:"user_id"`
	Period    string    `json:"period"`
	EndDate   string    `json:"end_date"`
	Timestamp time.Time `json:"timestamp"`
}

// INotifier 结算后的事件投递，失败不影响已提交的状态
type INotifier interface {
	SubscriptionActivated(ctx context.Context, event *SubscriptionActivated) error
}

type MQNotifier struct {
	Producer *rocketmq.Producer
	Topic    string
}

func NewNotifier(producer *rocketmq.Producer, conf *config.RocketMQConfig) INotifier {
	if producer == nil {
		return LogNotifier{}
	}
	topic := conf.NotifyTopic
	if topic == "" {
		topic = "inkwell_subscription"
	}
	return &MQNotifier{Producer: producer, Topic: topic}
}

func (n *MQNotifier) SubscriptionActivated(ctx context.Context, event *SubscriptionActivated) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.Producer.SendMsg(ctx, n.Topic, body)
}

// LogNotifier 未配置消息队列时只记录日志
type LogNotifier struct{}

func (LogNotifier) SubscriptionActivated(_ context.Context, event *SubscriptionActivated) error {
	log.L.Info("subscription activated",
		zap.String("order_sn", event.OrderSn),
		zap.Uint64("user_id", event.UserID),
		zap.String("end_date", event.EndDate))
	return nil
}
