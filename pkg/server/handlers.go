package server

import (
	"Inkwell/handler"
)

type Handlers struct {
	Pay          *handler.Pay
	Order        *handler.Order
	Points       *handler.Point
	Article      *handler.Article
	Subscription *handler.Subscription
}
