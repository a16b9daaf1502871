package handler

import (
	"Inkwell/pkg/log"
	"Inkwell/pkg/payment"
	"Inkwell/service"
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 渠道依据响应体判断是否重试，只能是这两个字面值
const (
	notifySuccess = "success"
	notifyFailure = "failure"
)

const maxNotifyBody = 64 << 10

type Pay struct {
	ReconcileService service.IReconcileService
}

func (p *Pay) RegisterRouter(r gin.IRouter) {
	pay := r.Group("/v1/pay")
	{
		pay.POST("/notify/:method", p.Notify)
		pay.GET("/notify/:method", p.Notify)
	}
}

// Notify 支付渠道异步回调
func (p *Pay) Notify(c *gin.Context) {
	method := c.Param("method")

	payload, err := readPayload(c.Request)
	if err != nil {
		log.L.Warn("read notify payload failed", zap.String("method", method), zap.Error(err))
		c.String(http.StatusBadRequest, notifyFailure)
		return
	}

	err = p.ReconcileService.HandleNotification(c.Request.Context(), method, payload)
	if err == nil {
		c.String(http.StatusOK, notifySuccess)
		return
	}
	c.String(notifyStatus(err), notifyFailure)
}

func notifyStatus(err error) int {
	switch {
	case service.IsRejected(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrOrderClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// readPayload 合并 query 与表单参数；XML 请求体原样保留
func readPayload(r *http.Request) (payment.Payload, error) {
	payload := payment.Payload{Params: map[string]string{}}
	for k := range r.URL.Query() {
		payload.Params[k] = r.URL.Query().Get(k)
	}
	if r.Body == nil {
		return payload, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxNotifyBody))
	if err != nil {
		return payload, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return payload, nil
	}

	if body[0] == '<' || strings.Contains(r.Header.Get("Content-Type"), "xml") {
		payload.Body = body
		return payload, nil
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		return payload, err
	}
	for k := range form {
		payload.Params[k] = form.Get(k)
	}
	return payload, nil
}
