package service

import "errors"

var (
	ErrInvalidAmount      = errors.New("积分数额必须大于0")
	ErrInsufficientPoints = errors.New("积分余额不足")
	ErrDuplicateSource    = errors.New("该业务已处理，请勿重复操作")
	ErrAlreadyCheckedIn   = errors.New("今日已签到")
	ErrInvalidPeriod      = errors.New("不支持的订阅周期")
	ErrArticleNotFound    = errors.New("文章不存在")
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderClosed        = errors.New("订单已关闭")
	ErrSettlement         = errors.New("订单结算失败")
)
