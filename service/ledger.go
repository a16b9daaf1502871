package service

import (
	"Inkwell/dao"
	"Inkwell/models"
	"Inkwell/pkg/snowflake"
	"Inkwell/types"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// LedgerService 积分账本，profiles.points 只能经由这里变更
type LedgerService struct {
	DB *gorm.DB
}

var _ ILedgerService = (*LedgerService)(nil)

type ILedgerService interface {
	// AddPoints 入账，同一 sourceID 只能入账一次
	AddPoints(ctx context.Context, userID uint64, amount int64, description, sourceID string) error
	// DeductPoints 余额不足返回 false，不产生任何变更
	DeductPoints(ctx context.Context, userID uint64, amount int64, description, sourceID string) (bool, error)
	// WithTx 绑定外层事务
	WithTx(tx *gorm.DB) ILedgerService

	Dashboard(ctx context.Context, userID uint64) (*types.PointsAccount, error)
	ListRecords(ctx context.Context, userID uint64, action string, cursor uint64, limit int) (*types.ListPointsRecord, error)
}

func (s *LedgerService) WithTx(tx *gorm.DB) ILedgerService {
	return &LedgerService{DB: tx}
}

func sourceOrAuto(sourceID string) string {
	if sourceID == "" {
		return fmt.Sprintf("auto:%d", snowflake.GenID())
	}
	return sourceID
}

func (s *LedgerService) AddPoints(ctx context.Context, userID uint64, amount int64, description, sourceID string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		point := dao.NewPoint(tx)
		if err := point.EnsureProfile(ctx, userID); err != nil {
			return fmt.Errorf("初始化积分账户失败: %w", err)
		}
		if _, err := point.AddBalance(ctx, userID, amount); err != nil {
			return fmt.Errorf("更新积分余额失败: %w", err)
		}

		profile, err := point.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		return point.CreateRecord(ctx, &models.PointsRecord{
			UserID:      userID,
			Points:      amount,
			Kind:        models.RecordEarn,
			Description: description,
			SourceID:    sourceOrAuto(sourceID),
			Balance:     profile.Points,
		})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSource
	}
	return err
}

func (s *LedgerService) DeductPoints(ctx context.Context, userID uint64, amount int64, description, sourceID string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	var deducted bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		point := dao.NewPoint(tx)
		rows, err := point.DeductBalance(ctx, userID, amount)
		if err != nil {
			return fmt.Errorf("扣减积分失败: %w", err)
		}
		if rows == 0 {
			return nil
		}

		profile, err := point.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if err := point.CreateRecord(ctx, &models.PointsRecord{
			UserID:      userID,
			Points:      -amount,
			Kind:        models.RecordSpend,
			Description: description,
			SourceID:    sourceOrAuto(sourceID),
			Balance:     profile.Points,
		}); err != nil {
			return err
		}
		deducted = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, ErrDuplicateSource
	}
	if err != nil {
		return false, err
	}
	return deducted, nil
}

func (s *LedgerService) Dashboard(ctx context.Context, userID uint64) (*types.PointsAccount, error) {
	profile, err := dao.NewPoint(s.DB).GetProfile(ctx, userID)
	if dao.IsNotFound(err) {
		return &types.PointsAccount{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &types.PointsAccount{
		Balance:     profile.Points,
		TotalEarned: profile.TotalEarned,
		TotalUsed:   profile.TotalUsed,
	}, nil
}

func (s *LedgerService) ListRecords(ctx context.Context, userID uint64, action string, cursor uint64, limit int) (*types.ListPointsRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	records, err := dao.NewPoint(s.DB).ListRecords(ctx, userID, action, cursor, limit)
	if err != nil {
		return nil, err
	}

	resp := &types.ListPointsRecord{Records: make([]types.PointRecordItem, 0, limit)}
	if len(records) > limit {
		resp.HasMore = true
		records = records[:limit]
	}
	for _, r := range records {
		resp.Records = append(resp.Records, types.PointRecordItem{
			ID:          r.ID,
			Amount:      r.Points,
			Balance:     r.Balance,
			Kind:        r.Kind,
			Description: r.Description,
			CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if resp.HasMore {
		resp.NextCursor = records[len(records)-1].ID
	}
	return resp, nil
}
