package handler

import (
	"Inkwell/pkg/payment"
	"Inkwell/pkg/response"
	"Inkwell/service"
	"errors"
)

// bizError 业务错误转换为统一错误码，其余错误原样返回
func bizError(err error) error {
	var ge *payment.GatewayError
	switch {
	case errors.Is(err, service.ErrInsufficientPoints):
		return response.NewError(response.CodeInsufficientPoints, service.ErrInsufficientPoints.Error())
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return response.NewError(response.CodeAlreadyCheckedIn, service.ErrAlreadyCheckedIn.Error())
	case errors.Is(err, service.ErrInvalidPeriod), errors.Is(err, service.ErrInvalidAmount):
		return response.NewError(response.CodeInvalidParams, err.Error())
	case errors.Is(err, payment.ErrUnsupportedMethod):
		return response.NewError(response.CodeUnsupportedMethod, "不支持的支付方式")
	case errors.Is(err, payment.ErrInvalidOrder):
		return response.NewError(response.CodeInvalidOrder, "订单金额不合法")
	case errors.Is(err, service.ErrArticleNotFound), errors.Is(err, service.ErrOrderNotFound):
		return response.NewError(response.CodeNotFound, err.Error())
	case errors.As(err, &ge):
		return response.NewError(response.CodeGateway, "支付渠道下单失败，请稍后重试")
	}
	return err
}

func invalidParams(err error) error {
	return response.NewError(response.CodeInvalidParams, "参数错误: "+err.Error())
}
