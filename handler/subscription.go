package handler

import (
	"Inkwell/config"
	"Inkwell/middleware"
	"Inkwell/pkg/context"
	"Inkwell/pkg/response"
	"Inkwell/service"
	"time"

	"github.com/gin-gonic/gin"
)

type Subscription struct {
	Config              *config.Config
	SubscriptionService service.ISubscriptionService
}

func (s *Subscription) RegisterRouter(r gin.IRouter) {
	r.GET("/v1/subscription", middleware.Auth([]byte(s.Config.Jwt.Secret)), context.Wrap(s.Status))
}

func (s *Subscription) Status(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	resp, err := s.SubscriptionService.Status(c.Request.Context(), uid, time.Now())
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
