package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchier/internal/repository"
	"searchier/pkg/lightfunnels"
)

const testScriptURL = "https://searchier.example.com/searchier.js"

type storeConfigFixture struct {
	svc   *StoreConfigService
	api   *fakeLightfunnels
	repo  repository.StoreConfigRepository
	users repository.UserRepository
}

func newStoreConfigFixture(t *testing.T, token string) (*storeConfigFixture, int64) {
	t.Helper()
	db := setupSearchierTestDB(t)
	users := repository.NewUserRepository(db)
	user := seedLinkedUser(t, users, token)

	api := newFakeLightfunnels()
	tokens := NewTokenService(users)
	repo := repository.NewStoreConfigRepository(db)
	stores := NewStoreService(tokens, api, nopLogger())
	svc := NewStoreConfigService(repo, tokens, stores, api, testScriptURL, nopLogger())
	return &storeConfigFixture{svc: svc, api: api, repo: repo, users: users}, user.ID
}

func testStore() lightfunnels.Store {
	domain := "shop.example.com"
	return lightfunnels.Store{ID: "store_1", Name: "Shop", Slug: "shop", DefaultDomain: &domain}
}

func TestStoreConfigService_InstallIsIdempotent(t *testing.T) {
	f, userID := newStoreConfigFixture(t, "tok")
	f.api.scripts["store_1"] = `<script src="https://cdn.other.com/a.js"></script>`
	ctx := context.Background()

	cfg, err := f.svc.Install(ctx, userID, testStore())
	require.NoError(t, err)
	assert.True(t, cfg.Installed)
	assert.NotNil(t, cfg.InstalledAt)
	assert.Equal(t, "shop.example.com", cfg.StoreDomain)
	assert.Equal(t, testScriptURL, cfg.ScriptURL)
	assert.Contains(t, cfg.ScriptTag, `data-searchier-store="store_1"`)
	assert.Equal(t, 1, f.api.writes)

	// 第二次安装内容不变，不写回
	_, err = f.svc.Install(ctx, userID, testStore())
	require.NoError(t, err)
	assert.Equal(t, 1, f.api.writes)
	assert.Equal(t, 1, strings.Count(f.api.scripts["store_1"], testScriptURL))
	assert.Contains(t, f.api.scripts["store_1"], "cdn.other.com")
}

func TestStoreConfigService_InstallResolvesBareStore(t *testing.T) {
	f, userID := newStoreConfigFixture(t, "tok")
	f.api.stores = []lightfunnels.Store{testStore()}

	cfg, err := f.svc.Install(context.Background(), userID, lightfunnels.Store{ID: "store_1"})
	require.NoError(t, err)
	assert.Equal(t, "Shop", cfg.StoreName)
	assert.Contains(t, cfg.ScriptTag, `data-searchier-store-slug="shop"`)
}

func TestStoreConfigService_UninstallRemovesTag(t *testing.T) {
	f, userID := newStoreConfigFixture(t, "tok")
	ctx := context.Background()

	_, err := f.svc.Install(ctx, userID, testStore())
	require.NoError(t, err)

	cfg, err := f.svc.Uninstall(ctx, userID, lightfunnels.Store{ID: "store_1"})
	require.NoError(t, err)
	assert.False(t, cfg.Installed)
	assert.Nil(t, cfg.InstalledAt)
	assert.Equal(t, "Shop", cfg.StoreName)
	assert.NotContains(t, f.api.scripts["store_1"], testScriptURL)

	// 已卸载的店铺公开接口不可用
	_, err = f.svc.GetInstalled(ctx, "store_1")
	assert.ErrorIs(t, err, ErrStoreNotConfigured)

	// 再次卸载时内容为空，不写回
	writes := f.api.writes
	_, err = f.svc.Uninstall(ctx, userID, testStore())
	require.NoError(t, err)
	assert.Equal(t, writes, f.api.writes)
}

func TestStoreConfigService_UninstallDeletedStore(t *testing.T) {
	f, userID := newStoreConfigFixture(t, "tok")
	f.api.readErr = lightfunnels.ErrNodeNotFound

	cfg, err := f.svc.Uninstall(context.Background(), userID, testStore())
	require.NoError(t, err)
	assert.False(t, cfg.Installed)
	assert.Equal(t, 0, f.api.writes)
}

func TestStoreConfigService_Validation(t *testing.T) {
	f, userID := newStoreConfigFixture(t, "tok")

	_, err := f.svc.Install(context.Background(), userID, lightfunnels.Store{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Uninstall(context.Background(), userID, lightfunnels.Store{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.GetInstalled(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStoreConfigService_MissingToken(t *testing.T) {
	f, userID := newStoreConfigFixture(t, "")

	_, err := f.svc.Install(context.Background(), userID, testStore())
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Equal(t, 0, f.api.writes)
}

func TestStoreConfigService_Reconcile(t *testing.T) {
	f, userID := newStoreConfigFixture(t, "tok")
	ctx := context.Background()

	cfg, err := f.svc.Install(ctx, userID, testStore())
	require.NoError(t, err)

	changed, err := f.svc.Reconcile(ctx, *cfg)
	require.NoError(t, err)
	assert.False(t, changed)

	// 商家在后台手动删掉了脚本
	f.api.scripts["store_1"] = `<script src="https://cdn.other.com/a.js"></script>`
	changed, err = f.svc.Reconcile(ctx, *cfg)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, f.api.scripts["store_1"], testScriptURL)
	assert.Contains(t, f.api.scripts["store_1"], "cdn.other.com")
}
