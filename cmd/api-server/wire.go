//go:build wireinject
// +build wireinject

package main

import (
	"Inkwell/config"
	"Inkwell/dao"
	"Inkwell/handler"
	"Inkwell/pkg/client"
	"Inkwell/pkg/database"
	"Inkwell/pkg/payment"
	"Inkwell/pkg/rocketmq"
	"Inkwell/pkg/server"
	"Inkwell/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, error) {
	wire.Build(
		config.ProvidePayConfig,
		config.ProvideRocketMQConfig,
		config.ProvideSubscriptionConfig,

		database.NewDB,
		client.NewRedisClient,
		rocketmq.InitProducer,
		payment.NewRegistryFromConfig,

		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Pay), "*"),
		wire.Struct(new(handler.Order), "*"),
		wire.Struct(new(handler.Point), "*"),
		wire.Struct(new(handler.Article), "*"),
		wire.Struct(new(handler.Subscription), "*"),

		server.NewGinEngine,
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil, nil
}
