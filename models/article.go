package models

import "time"

type Article struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID        uint64    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Title          string    `gorm:"column:title;size:255;not null" json:"title"`
	IsFree         bool      `gorm:"column:is_free;not null" json:"is_free"`
	RequiredPoints int64     `gorm:"column:required_points;not null;default:0" json:"required_points"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}

// ArticleUnlock 用户已用积分解锁的文章
type ArticleUnlock struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_user_article,priority:1" json:"user_id"`
	ArticleID   uint64    `gorm:"column:article_id;not null;uniqueIndex:uk_user_article,priority:2" json:"article_id"`
	PointsSpent int64     `gorm:"column:points_spent;not null" json:"points_spent"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ArticleUnlock) TableName() string {
	return "article_unlocks"
}
