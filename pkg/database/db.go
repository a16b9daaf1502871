package database

import (
	"Inkwell/config"
	"Inkwell/models"
	"Inkwell/pkg/log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	gormConf := &gorm.Config{TranslateError: true}
	if !conf.Debug() {
		gormConf.Logger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(mysql.Open(conf.MySQL.Dsn()), gormConf)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}
	log.L.Info("connect database success")
	return db
}

// AutoMigrate 建表及索引
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.PointsRecord{},
		&models.RechargeOrder{},
		&models.SubscriptionOrder{},
		&models.PaymentNotification{},
		&models.Article{},
		&models.ArticleUnlock{},
	)
}
