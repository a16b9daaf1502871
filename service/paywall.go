package service

import (
	"Inkwell/dao"
	"Inkwell/dao/cache"
	"Inkwell/models"
	"Inkwell/pkg/log"
	"Inkwell/types"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaywallService struct {
	DB           *gorm.DB
	Ledger       ILedgerService
	Subscription ISubscriptionService
	ArticleDAO   *dao.Article
	UnlockDAO    *dao.ArticleUnlock
	UnlockCache  *cache.UnlockCache
}

var _ IPaywallService = (*PaywallService)(nil)

type IPaywallService interface {
	// Evaluate viewerID 为 0 表示匿名访问；confirm 为 true 时余额足够即扣分解锁
	Evaluate(ctx context.Context, viewerID, articleID uint64, confirm bool, now time.Time) (*types.ArticleAccess, error)
}

var errAlreadyUnlocked = errors.New("already unlocked")

func (s *PaywallService) Evaluate(ctx context.Context, viewerID, articleID uint64, confirm bool, now time.Time) (*types.ArticleAccess, error) {
	article, err := s.ArticleDAO.FindById(ctx, articleID)
	if dao.IsNotFound(err) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}

	res := &types.ArticleAccess{ArticleID: article.ID, RequiredPoints: article.RequiredPoints}

	// 1. 免费
	if article.IsFree {
		res.Access = types.AccessFull
		return res, nil
	}

	if viewerID == 0 {
		res.Access = types.AccessDeniedAnonymous
		res.ShowPreview = true
		return res, nil
	}

	profile, err := dao.NewPoint(s.DB).GetProfile(ctx, viewerID)
	if err != nil && !dao.IsNotFound(err) {
		return nil, err
	}

	// 2. 会员有效期内
	if profile != nil && s.Subscription.IsValid(profile, now) {
		res.Access = types.AccessFull
		return res, nil
	}

	// 3. 已解锁
	unlocked, err := s.isUnlocked(ctx, viewerID, articleID)
	if err != nil {
		return nil, err
	}
	if unlocked {
		res.Access = types.AccessFull
		return res, nil
	}

	res.ShowPreview = true

	var balance int64
	if profile != nil {
		balance = profile.Points
	}

	// 4. 余额足够，0 积分的文章同样需要确认解锁
	if balance >= article.RequiredPoints {
		if !confirm {
			res.Access = types.AccessPreview
			return res, nil
		}
		granted, err := s.purchase(ctx, viewerID, article)
		if err != nil {
			return nil, err
		}
		if granted {
			res.Access = types.AccessFull
			res.ShowPreview = false
			return res, nil
		}
		// 并发扣减失败，按余额不足处理
	}

	// 5. 余额不足
	res.Access = types.AccessPreviewInsufficient
	res.InsufficientPoints = true
	return res, nil
}

func (s *PaywallService) isUnlocked(ctx context.Context, userID, articleID uint64) (bool, error) {
	if s.UnlockCache != nil {
		ok, hit, err := s.UnlockCache.IsUnlocked(ctx, userID, articleID)
		if err != nil {
			log.L.Warn("read unlock cache failed", zap.Error(err))
		} else if hit {
			return ok, nil
		}
	}

	ok, err := s.UnlockDAO.IsUnlocked(ctx, userID, articleID)
	if err != nil {
		return false, err
	}
	if ok {
		s.cacheUnlock(ctx, userID, articleID)
	}
	return ok, nil
}

func (s *PaywallService) cacheUnlock(ctx context.Context, userID, articleID uint64) {
	if s.UnlockCache == nil {
		return
	}
	if err := s.UnlockCache.Set(ctx, userID, articleID); err != nil {
		log.L.Warn("write unlock cache failed", zap.Uint64("user_id", userID), zap.Uint64("article_id", articleID), zap.Error(err))
	}
}

// purchase 扣分与写入解锁记录在同一事务内
func (s *PaywallService) purchase(ctx context.Context, userID uint64, article *models.Article) (bool, error) {
	var deducted bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if article.RequiredPoints > 0 {
			ok, err := s.Ledger.WithTx(tx).DeductPoints(ctx, userID, article.RequiredPoints,
				fmt.Sprintf("解锁文章《%s》", article.Title), fmt.Sprintf("unlock:%d", article.ID))
			if errors.Is(err, ErrDuplicateSource) {
				return errAlreadyUnlocked
			}
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		err := dao.NewArticleUnlock(tx).Create(ctx, &models.ArticleUnlock{
			UserID:      userID,
			ArticleID:   article.ID,
			PointsSpent: article.RequiredPoints,
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errAlreadyUnlocked
		}
		if err != nil {
			return err
		}
		deducted = true
		return nil
	})

	switch {
	case errors.Is(err, errAlreadyUnlocked):
		// 并发重复解锁，本次扣分已回滚
		log.L.Info("article already unlocked", zap.Uint64("user_id", userID), zap.Uint64("article_id", article.ID))
		s.cacheUnlock(ctx, userID, article.ID)
		return true, nil
	case err != nil:
		return false, err
	case !deducted:
		return false, nil
	}

	s.cacheUnlock(ctx, userID, article.ID)
	log.L.Info("article unlocked",
		zap.Uint64("user_id", userID),
		zap.Uint64("article_id", article.ID),
		zap.Int64("points", article.RequiredPoints))
	return true, nil
}
