package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(LedgerService), "*"),
	wire.Bind(new(ILedgerService), new(*LedgerService)),

	wire.Struct(new(SubscriptionService), "*"),
	wire.Bind(new(ISubscriptionService), new(*SubscriptionService)),

	wire.Struct(new(PaywallService), "*"),
	wire.Bind(new(IPaywallService), new(*PaywallService)),

	wire.Struct(new(ReconcileService), "*"),
	wire.Bind(new(IReconcileService), new(*ReconcileService)),

	wire.Struct(new(OrderService), "*"),
	wire.Bind(new(IOrderService), new(*OrderService)),

	wire.Struct(new(CheckInService), "*"),
	wire.Bind(new(ICheckInService), new(*CheckInService)),

	NewNotifier,
)
