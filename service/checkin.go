package service

import (
	"Inkwell/config"
	"Inkwell/pkg/log"
	"Inkwell/types"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type CheckInService struct {
	Config *config.SubscriptionConfig
	Ledger ILedgerService
}

var _ ICheckInService = (*CheckInService)(nil)

type ICheckInService interface {
	// CheckIn 每个 UTC 自然日一次
	CheckIn(ctx context.Context, userID uint64, now time.Time) (*types.CheckInResp, error)
}

func (s *CheckInService) CheckIn(ctx context.Context, userID uint64, now time.Time) (*types.CheckInResp, error) {
	day := Today(now).Format("2006-01-02")
	err := s.Ledger.AddPoints(ctx, userID, s.Config.CheckInPoints, "每日签到", "checkin:"+day)
	if errors.Is(err, ErrDuplicateSource) {
		return nil, ErrAlreadyCheckedIn
	}
	if err != nil {
		return nil, err
	}

	account, err := s.Ledger.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	log.L.Info("check in", zap.Uint64("user_id", userID), zap.String("date", day))
	return &types.CheckInResp{Date: day, Points: s.Config.CheckInPoints, Balance: account.Balance}, nil
}
