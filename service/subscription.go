package service

import (
	"Inkwell/dao"
	"Inkwell/models"
	"Inkwell/types"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// 订阅周期天数，按固定天数近似，不做自然月计算
var periodDays = map[string]int{
	models.PeriodMonthly:   30,
	models.PeriodQuarterly: 90,
	models.PeriodYearly:    365,
}

func PeriodDays(period string) (int, error) {
	days, ok := periodDays[period]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return days, nil
}

// Today UTC 零点
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type SubscriptionService struct {
	DB *gorm.DB
}

var _ ISubscriptionService = (*SubscriptionService)(nil)

type ISubscriptionService interface {
	// Activate 开通或续期，不涉及积分扣减
	Activate(ctx context.Context, userID uint64, period string, now time.Time) (*models.Profile, error)
	IsValid(profile *models.Profile, now time.Time) bool
	Status(ctx context.Context, userID uint64, now time.Time) (*types.SubscriptionStatus, error)
	WithTx(tx *gorm.DB) ISubscriptionService
}

func (s *SubscriptionService) WithTx(tx *gorm.DB) ISubscriptionService {
	return &SubscriptionService{DB: tx}
}

func (s *SubscriptionService) IsValid(profile *models.Profile, now time.Time) bool {
	if profile == nil || !profile.IsSubscribed || profile.SubscriptionEndDate == nil {
		return false
	}
	return profile.SubscriptionEndDate.After(Today(now))
}

func (s *SubscriptionService) Activate(ctx context.Context, userID uint64, period string, now time.Time) (*models.Profile, error) {
	days, err := PeriodDays(period)
	if err != nil {
		return nil, err
	}

	var profile *models.Profile
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		point := dao.NewPoint(tx)
		if err := point.EnsureProfile(ctx, userID); err != nil {
			return err
		}
		current, err := point.GetProfileForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		today := Today(now)
		start, base := today, today
		// 有效期内续订：顺延到原到期日之后
		if s.IsValid(current, now) {
			base = current.SubscriptionEndDate.UTC()
			if current.SubscriptionStartDate != nil {
				start = current.SubscriptionStartDate.UTC()
			}
		}
		end := base.AddDate(0, 0, days)

		if _, err := point.UpdateWhere(ctx, map[string]any{
			"is_subscribed":           true,
			"subscription_start_date": start,
			"subscription_end_date":   end,
		}, "user_id = ?", userID); err != nil {
			return fmt.Errorf("更新订阅状态失败: %w", err)
		}

		current.IsSubscribed = true
		current.SubscriptionStartDate = &start
		current.SubscriptionEndDate = &end
		profile = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *SubscriptionService) Status(ctx context.Context, userID uint64, now time.Time) (*types.SubscriptionStatus, error) {
	profile, err := dao.NewPoint(s.DB).GetProfile(ctx, userID)
	if dao.IsNotFound(err) {
		return &types.SubscriptionStatus{}, nil
	}
	if err != nil {
		return nil, err
	}

	status := &types.SubscriptionStatus{
		IsSubscribed: profile.IsSubscribed,
		Valid:        s.IsValid(profile, now),
	}
	if profile.SubscriptionStartDate != nil {
		status.StartDate = profile.SubscriptionStartDate.UTC().Format("2006-01-02")
	}
	if profile.SubscriptionEndDate != nil {
		status.EndDate = profile.SubscriptionEndDate.UTC().Format("2006-01-02")
		if status.Valid {
			status.DaysLeft = int(profile.SubscriptionEndDate.UTC().Sub(Today(now)).Hours() / 24)
		}
	}
	return status, nil
}
