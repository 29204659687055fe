package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"searchier/internal/model"
	"searchier/internal/repository"
	"searchier/pkg/lightfunnels"
)

// ==================== 测试辅助 ====================

func setupSearchierTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.OAuthAccount{}, &model.StoreConfig{}, &model.SearchEvent{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// seedLinkedUser 创建带 Lightfunnels 令牌的用户
func seedLinkedUser(t *testing.T, repo repository.UserRepository, token string) *model.User {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Email: "merchant@example.com", Name: "Merchant"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	if token != "" {
		if err := repo.SaveAccount(ctx, &model.OAuthAccount{
			UserID:      user.ID,
			ProviderID:  model.ProviderLightfunnels,
			AccountID:   "acc_1",
			AccessToken: token,
		}); err != nil {
			t.Fatalf("创建授权失败: %v", err)
		}
	}
	return user
}

// fakeLightfunnels 内存版平台 API
type fakeLightfunnels struct {
	mu sync.Mutex

	account  *lightfunnels.Account
	stores   []lightfunnels.Store
	scripts  map[string]string
	products *lightfunnels.ProductConnection

	err       error
	readErr   error
	writes    int
	lastToken string
	lastQuery string
	lastFirst int
	lastAfter string
}

func newFakeLightfunnels() *fakeLightfunnels {
	return &fakeLightfunnels{scripts: map[string]string{}}
}

func (f *fakeLightfunnels) FetchAccount(ctx context.Context, token string) (*lightfunnels.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func (f *fakeLightfunnels) ListAccountStores(ctx context.Context, token string) ([]lightfunnels.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.stores, nil
}

func (f *fakeLightfunnels) GetHeaderScripts(ctx context.Context, token, storeID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	if f.readErr != nil {
		return "", f.readErr
	}
	if f.err != nil {
		return "", f.err
	}
	return f.scripts[storeID], nil
}

func (f *fakeLightfunnels) UpdateHeaderScripts(ctx context.Context, token, storeID, scripts string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	if f.err != nil {
		return f.err
	}
	f.writes++
	f.scripts[storeID] = scripts
	return nil
}

func (f *fakeLightfunnels) SearchProducts(ctx context.Context, token, query string, first int, after string) (*lightfunnels.ProductConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	f.lastQuery = query
	f.lastFirst = first
	f.lastAfter = after
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func nopLogger() *zap.Logger { return zap.NewNop() }

func strPtr(s string) *string { return &s }
