package models

import "time"

// Profile 用户积分与会员状态，仅由积分和订阅服务写入
type Profile struct {
	ID                    uint64     `gorm:"primaryKey;column:id" json:"id"`
	UserID                uint64     `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Points                int64      `gorm:"column:points;not null;default:0" json:"points"`
	TotalEarned           int64      `gorm:"column:total_earned;not null;default:0" json:"total_earned"`
	TotalUsed             int64      `gorm:"column:total_used;not null;default:0" json:"total_used"`
	IsSubscribed          bool       `gorm:"column:is_subscribed;not null;default:false" json:"is_subscribed"`
	SubscriptionStartDate *time.Time `gorm:"column:subscription_start_date" json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `gorm:"column:subscription_end_date" json:"subscription_end_date"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// 积分流水方向
const (
	RecordEarn  = "earn"
	RecordSpend = "spend"
)

// PointsRecord 积分流水，只追加
type PointsRecord struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	UserID      uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_user_source,priority:1" json:"user_id"`
	Points      int64     `gorm:"column:points;not null" json:"points"` // 变动数额（正负）
	Kind        string    `gorm:"column:kind;type:varchar(8);not null" json:"kind"`
	Description string    `gorm:"column:description;size:255" json:"description"`
	SourceID    string    `gorm:"column:source_id;size:64;not null;uniqueIndex:uk_user_source,priority:2" json:"source_id"`
	Balance     int64     `gorm:"column:balance" json:"balance"` // 变动后余额
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PointsRecord) TableName() string {
	return "points_records"
}
