package response

import (
	"Inkwell/pkg/log"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 业务错误码
const (
	CodeInvalidParams      = 40001
	CodeUnsupportedMethod  = 40002
	CodeInvalidOrder       = 40003
	CodeInsufficientPoints = 40201
	CodeAlreadyCheckedIn   = 40901
	CodeNotFound           = 40401
	CodeGateway            = 50201
)

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// IsBizError 判断是否为业务错误并返回
func IsBizError(err error) (*BizError, bool) {
	var be *BizError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Request.URL.Path))
				c.JSON(http.StatusInternalServerError, Response{
					Code: 500,
					Msg:  "系统异常",
				})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			if be, ok := IsBizError(err); ok {
				Fail(c, be.Code, be.Msg)
			} else {
				log.L.Error("request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
				Fail(c, 500, "系统异常")
			}
			c.Abort()
		}
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
