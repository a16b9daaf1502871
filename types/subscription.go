package types

type SubscriptionStatus struct {
	IsSubscribed bool   `json:"is_subscribed"`
	Valid        bool   `json:"valid"`
	StartDate    string `json:"start_date,omitempty"` // 2006-01-02
	EndDate      string `json:"end_date,omitempty"`
	DaysLeft     int    `json:"days_left"`
}
