package config

// SubscriptionConfig 会员订阅积分定价与积分兑换比例
type SubscriptionConfig struct {
	MonthlyPoints   int64 `json:"monthly_points" yaml:"monthly_points"`
	QuarterlyPoints int64 `json:"quarterly_points" yaml:"quarterly_points"`
	YearlyPoints    int64 `json:"yearly_points" yaml:"yearly_points"`
	PointsPerYuan   int64 `json:"points_per_yuan" yaml:"points_per_yuan"` // 1 元兑换的积分
	CheckInPoints   int64 `json:"check_in_points" yaml:"check_in_points"` // 每日签到奖励
}

func (s *SubscriptionConfig) fill() {
	if s.MonthlyPoints == 0 {
		s.MonthlyPoints = 100
	}
	if s.QuarterlyPoints == 0 {
		s.QuarterlyPoints = 250
	}
	if s.YearlyPoints == 0 {
		s.YearlyPoints = 900
	}
	if s.PointsPerYuan == 0 {
		s.PointsPerYuan = 10
	}
	if s.CheckInPoints == 0 {
		s.CheckInPoints = 10
	}
}

func ProvideSubscriptionConfig(cfg *Config) *SubscriptionConfig {
	return cfg.Subscription
}
