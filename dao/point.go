package dao

import (
	"Inkwell/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Point struct {
	Repo[models.Profile]
}

func NewPoint(db *gorm.DB) *Point {
	return &Point{
		Repo: NewRepo[models.Profile](db),
	}
}

// GetProfile 账户不存在时返回 gorm.ErrRecordNotFound
func (p *Point) GetProfile(ctx context.Context, userID uint64) (*models.Profile, error) {
	return p.FindByWhere(ctx, "user_id = ?", userID)
}

// GetProfileForUpdate 事务内读取并锁定账户行
func (p *Point) GetProfileForUpdate(ctx context.Context, userID uint64) (*models.Profile, error) {
	var profile models.Profile
	err := p.Db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile 首次写入时开户，已存在则什么也不做
func (p *Point) EnsureProfile(ctx context.Context, userID uint64) error {
	return p.Db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&models.Profile{UserID: userID}).Error
}

// AddBalance 加积分并累计收入
func (p *Point) AddBalance(ctx context.Context, userID uint64, amount int64) (int64, error) {
	res := p.Model(ctx).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"points":       gorm.Expr("points + ?", amount),
			"total_earned": gorm.Expr("total_earned + ?", amount),
		})
	return res.RowsAffected, res.Error
}

// DeductBalance 余额充足才扣减，余额不足时影响行数为 0
func (p *Point) DeductBalance(ctx context.Context, userID uint64, amount int64) (int64, error) {
	res := p.Model(ctx).
		Where("user_id = ? AND points >= ?", userID, amount).
		Updates(map[string]any{
			"points":     gorm.Expr("points - ?", amount),
			"total_used": gorm.Expr("total_used + ?", amount),
		})
	return res.RowsAffected, res.Error
}

func (p *Point) CreateRecord(ctx context.Context, record *models.PointsRecord) error {
	return p.Db.WithContext(ctx).Create(record).Error
}

// SumRecords 流水合计，应与账户余额一致
func (p *Point) SumRecords(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	err := p.Db.WithContext(ctx).Model(&models.PointsRecord{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	return sum, err
}

// ListRecords 游标分页，多取 limit+1 条用于判断是否还有下一页
func (p *Point) ListRecords(ctx context.Context, userID uint64, action string, cursor uint64, limit int) ([]*models.PointsRecord, error) {
	var records []*models.PointsRecord
	query := p.Db.WithContext(ctx).Where("user_id = ?", userID)

	switch action {
	case "income":
		query = query.Where("points > ?", 0)
	case "expense":
		query = query.Where("points < ?", 0)
	}

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	err := query.Order("id DESC").Limit(limit + 1).Find(&records).Error
	return records, err
}
