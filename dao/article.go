package dao

import (
	"Inkwell/models"
	"context"

	"gorm.io/gorm"
)

type Article struct {
	Repo[models.Article]
}

func NewArticle(db *gorm.DB) *Article {
	return &Article{Repo: NewRepo[models.Article](db)}
}

type ArticleUnlock struct {
	Repo[models.ArticleUnlock]
}

func NewArticleUnlock(db *gorm.DB) *ArticleUnlock {
	return &ArticleUnlock{Repo: NewRepo[models.ArticleUnlock](db)}
}

func (d *ArticleUnlock) IsUnlocked(ctx context.Context, userID, articleID uint64) (bool, error) {
	return d.IsExist(ctx, "user_id = ? AND article_id = ?", userID, articleID)
}
