package types

// PointsAccount 账户概览统计
type PointsAccount struct {
	Balance     int64 `json:"balance"`      // 当前可用积分余额
	TotalEarned int64 `json:"total_earned"` // 历史累计获得
	TotalUsed   int64 `json:"total_used"`   // 历史累计使用
}

// PointRecordItem 单条流水记录详情
type PointRecordItem struct {
	ID          uint64 `json:"id"`
	Amount      int64  `json:"amount"`  // 正数为入账，负数为支出
	Balance     int64  `json:"balance"` // 变动后的余额快照
	Kind        string `json:"kind"`    // earn / spend
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"` // 2006-01-02 15:04:05
}

// ListPointsRecord 流水列表包装
type ListPointsRecord struct {
	Records    []PointRecordItem `json:"records"`
	NextCursor uint64            `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

type ListPointRecordsReq struct {
	Action string `form:"action" binding:"omitempty,oneof=all income expense"`
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit,default=10" binding:"min=1,max=100"`
}

type CheckInResp struct {
	Date    string `json:"date"`
	Points  int64  `json:"points"`
	Balance int64  `json:"balance"`
}
