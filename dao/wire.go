package dao

import (
	"Inkwell/dao/cache"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewPoint,
	NewRechargeOrder,
	NewSubscriptionOrder,
	NewNotification,
	NewArticle,
	NewArticleUnlock,
	cache.NewUnlockCache,
)
