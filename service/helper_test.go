package service

import (
	"Inkwell/config"
	"Inkwell/dao"
	"Inkwell/dao/cache"
	"Inkwell/models"
	"Inkwell/pkg/database"
	"Inkwell/pkg/payment"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只在单连接内可见
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// fakeGateway 以 sign=valid 作为合法签名，status 直接给出结果
type fakeGateway struct {
	method      payment.Method
	target      string
	initiateErr error

	mu        sync.Mutex
	initiated []payment.Order
}

func (f *fakeGateway) Method() payment.Method { return f.method }

func (f *fakeGateway) Initiate(_ context.Context, order payment.Order) (string, error) {
	if err := order.Validate(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.initiated = append(f.initiated, order)
	f.mu.Unlock()
	if f.initiateErr != nil {
		return "", f.initiateErr
	}
	return f.target + "?sn=" + order.SN, nil
}

func (f *fakeGateway) ParseNotification(_ context.Context, p payment.Payload) (*payment.Notification, error) {
	if p.Params["sign"] != "valid" || p.Params["sn"] == "" {
		return nil, payment.ErrInvalidSignature
	}
	return &payment.Notification{
		OrderSN:        p.Params["sn"],
		TransactionID:  p.Params["tx"],
		ProviderStatus: p.Params["status"],
		Outcome:        payment.Outcome(p.Params["status"]),
	}, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []*SubscriptionActivated
	err    error
}

func (f *fakeNotifier) SubscriptionActivated(_ context.Context, event *SubscriptionActivated) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	gateway  *fakeGateway
	notifier *fakeNotifier
	conf     *config.SubscriptionConfig

	ledger       *LedgerService
	subscription *SubscriptionService
	paywall      *PaywallService
	reconcile    *ReconcileService
	order        *OrderService
	checkIn      *CheckInService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	conf := &config.SubscriptionConfig{
		MonthlyPoints:   100,
		QuarterlyPoints: 250,
		YearlyPoints:    900,
		PointsPerYuan:   10,
		CheckInPoints:   10,
	}
	gateway := &fakeGateway{method: payment.Wechat, target: "weixin://pay"}
	notifier := &fakeNotifier{}
	registry := payment.NewRegistry(gateway)

	ledger := &LedgerService{DB: db}
	subscription := &SubscriptionService{DB: db}
	reconcile := &ReconcileService{
		DB:              db,
		Registry:        registry,
		Ledger:          ledger,
		Subscription:    subscription,
		Notifier:        notifier,
		NotificationDAO: dao.NewNotification(db),
	}

	return &testEnv{
		db:           db,
		mr:           mr,
		gateway:      gateway,
		notifier:     notifier,
		conf:         conf,
		ledger:       ledger,
		subscription: subscription,
		reconcile:    reconcile,
		paywall: &PaywallService{
			DB:           db,
			Ledger:       ledger,
			Subscription: subscription,
			ArticleDAO:   dao.NewArticle(db),
			UnlockDAO:    dao.NewArticleUnlock(db),
			UnlockCache:  cache.NewUnlockCache(rdb),
		},
		order: &OrderService{
			DB:              db,
			Config:          conf,
			Registry:        registry,
			Ledger:          ledger,
			Reconcile:       reconcile,
			RechargeDAO:     dao.NewRechargeOrder(db),
			SubscriptionDAO: dao.NewSubscriptionOrder(db),
		},
		checkIn: &CheckInService{Config: conf, Ledger: ledger},
	}
}

func (e *testEnv) profile(t *testing.T, userID uint64) *models.Profile {
	t.Helper()
	p, err := dao.NewPoint(e.db).GetProfile(context.Background(), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Profile{UserID: userID}
	}
	require.NoError(t, err)
	return p
}

func (e *testEnv) records(t *testing.T, userID uint64) []models.PointsRecord {
	t.Helper()
	var records []models.PointsRecord
	require.NoError(t, e.db.Where("user_id = ?", userID).Order("id ASC").Find(&records).Error)
	return records
}

// requireLedgerConsistent 流水合计等于余额且余额非负
func (e *testEnv) requireLedgerConsistent(t *testing.T, userID uint64) {
	t.Helper()
	sum, err := dao.NewPoint(e.db).SumRecords(context.Background(), userID)
	require.NoError(t, err)
	p := e.profile(t, userID)
	require.Equal(t, p.Points, sum)
	require.GreaterOrEqual(t, p.Points, int64(0))
}

func (e *testEnv) seedPoints(t *testing.T, userID uint64, points int64) {
	t.Helper()
	require.NoError(t, e.ledger.AddPoints(context.Background(), userID, points, "seed", "seed"))
}

var fixedNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return Today(fixedNow).AddDate(0, 0, offset)
}
