package types

// 文章访问结果
const (
	AccessFull                = "full"
	AccessPreview             = "preview"
	AccessPreviewInsufficient = "preview_insufficient"
	AccessDeniedAnonymous     = "denied_anonymous"
)

type ArticleAccess struct {
	ArticleID          uint64 `json:"article_id"`
	Access             string `json:"access"`
	RequiredPoints     int64  `json:"required_points"`
	ShowPreview        bool   `json:"show_preview"`
	InsufficientPoints bool   `json:"insufficient_points"`
}

// Granted 是否可查看全文
func (a *ArticleAccess) Granted() bool {
	return a.Access == AccessFull
}
