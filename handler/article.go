package handler

import (
	"Inkwell/config"
	"Inkwell/middleware"
	"Inkwell/pkg/context"
	"Inkwell/pkg/response"
	"Inkwell/service"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Article struct {
	Config         *config.Config
	PaywallService service.IPaywallService
}

func (a *Article) RegisterRouter(r gin.IRouter) {
	secret := []byte(a.Config.Jwt.Secret)
	article := r.Group("/v1/articles")
	{
		article.GET("/:id/access", middleware.OptionalAuth(secret), context.Wrap(a.Access))
		article.POST("/:id/unlock", middleware.Auth(secret), context.Wrap(a.Unlock))
	}
}

// Access 查询访问权限，不扣积分
func (a *Article) Access(c *gin.Context) error {
	return a.evaluate(c, false)
}

// Unlock 确认使用积分解锁
func (a *Article) Unlock(c *gin.Context) error {
	return a.evaluate(c, true)
}

func (a *Article) evaluate(c *gin.Context, confirm bool) error {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || articleID == 0 {
		return invalidParams(errors.New("文章ID不合法"))
	}

	// 匿名访问 viewer 为 0
	viewer, _ := context.GetUserID(c)

	resp, err := a.PaywallService.Evaluate(c.Request.Context(), viewer, articleID, confirm, time.Now())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}
