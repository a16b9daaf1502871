package handler

import (
	"Inkwell/config"
	"Inkwell/middleware"
	"Inkwell/pkg/context"
	"Inkwell/pkg/response"
	"Inkwell/service"
	"Inkwell/types"
	"time"

	"github.com/gin-gonic/gin"
)

type Point struct {
	Config         *config.Config
	LedgerService  service.ILedgerService
	CheckInService service.ICheckInService
}

func (p *Point) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret))
	pointGroup := r.Group("/v1/points", authorize)
	pointGroup.GET("/account", context.Wrap(p.Account))
	pointGroup.GET("/records", context.Wrap(p.Records))
	pointGroup.POST("/checkin", context.Wrap(p.CheckIn))
}

func (p *Point) Account(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	resp, err := p.LedgerService.Dashboard(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) Records(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.ListPointRecordsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return invalidParams(err)
	}

	resp, err := p.LedgerService.ListRecords(c.Request.Context(), uid, req.Action, req.Cursor, req.Limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) CheckIn(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	resp, err := p.CheckInService.CheckIn(c.Request.Context(), uid, time.Now())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}
