package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"searchier/internal/middleware"
	"searchier/internal/model"
	"searchier/internal/repository"
	"searchier/internal/service"
	"searchier/pkg/lightfunnels"
)

const testScriptURL = "https://searchier.example.com/searchier.js"

// ==================== 测试辅助 ====================

// stubAPI 控制器测试用的平台 API
type stubAPI struct {
	mu       sync.Mutex
	stores   []lightfunnels.Store
	scripts  map[string]string
	products *lightfunnels.ProductConnection
	err      error
	query    string
	first    int
}

func (s *stubAPI) FetchAccount(ctx context.Context, token string) (*lightfunnels.Account, error) {
	return nil, s.err
}

func (s *stubAPI) ListAccountStores(ctx context.Context, token string) ([]lightfunnels.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stores, nil
}

func (s *stubAPI) GetHeaderScripts(ctx context.Context, token, storeID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.scripts[storeID], nil
}

func (s *stubAPI) UpdateHeaderScripts(ctx context.Context, token, storeID, scripts string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.scripts[storeID] = scripts
	return nil
}

func (s *stubAPI) SearchProducts(ctx context.Context, token, query string, first int, after string) (*lightfunnels.ProductConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query, s.first = query, first
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type ctlEnv struct {
	router  *gin.Engine
	api     *stubAPI
	configs repository.StoreConfigRepository
	events  repository.SearchEventRepository
	userID  int64
	token   string
}

func setupCtlEnv(t *testing.T) *ctlEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	middleware.SetJWTConfig(&middleware.JWTConfig{SecretKey: "ctl-secret", SessionTTL: time.Hour, Issuer: "searchier"})
	t.Cleanup(func() { middleware.SetJWTConfig(middleware.DefaultJWTConfig()) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.OAuthAccount{}, &model.StoreConfig{}, &model.SearchEvent{}))

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	user := &model.User{Email: "merchant@example.com", Name: "Merchant"}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, users.SaveAccount(ctx, &model.OAuthAccount{
		UserID: user.ID, ProviderID: model.ProviderLightfunnels, AccountID: "acc_1", AccessToken: "tok",
	}))

	api := &stubAPI{scripts: map[string]string{}}
	log := zap.NewNop()
	configs := repository.NewStoreConfigRepository(db)
	events := repository.NewSearchEventRepository(db)

	tokens := service.NewTokenService(users)
	storeSvc := service.NewStoreService(tokens, api, log)
	configSvc := service.NewStoreConfigService(configs, tokens, storeSvc, api, testScriptURL, log)
	productSvc := service.NewProductService(tokens, api, log)
	analyticsSvc := service.NewAnalyticsService(events, log)

	productCtl := NewProductController(configSvc, productSvc, log)
	eventCtl := NewEventController(configSvc, analyticsSvc, log)
	configCtl := NewStoreConfigController(configSvc, log)
	storeCtl := NewStoreController(storeSvc, log)
	analyticsCtl := NewAnalyticsController(analyticsSvc, log)

	r := gin.New()
	group := r.Group("/api")
	group.GET("/products", productCtl.Search)
	group.POST("/searchier/events", eventCtl.Record)
	authed := group.Group("", middleware.SessionAuth())
	authed.GET("/store-config", configCtl.List)
	authed.POST("/store-config", configCtl.Install)
	authed.DELETE("/store-config", configCtl.Uninstall)
	authed.GET("/stores", storeCtl.List)
	authed.GET("/analytics", analyticsCtl.Summary)

	token, _, err := middleware.GenerateSessionToken(user.ID, user.Email)
	require.NoError(t, err)

	return &ctlEnv{router: r, api: api, configs: configs, events: events, userID: user.ID, token: token}
}

// do 发送请求，authed 时带会话令牌
func (e *ctlEnv) do(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// install 直接写入一条已安装配置
func (e *ctlEnv) install(t *testing.T, storeID string) {
	t.Helper()
	now := time.Now()
	_, err := e.configs.Upsert(context.Background(), &model.StoreConfig{
		UserID: e.userID, StoreID: storeID, StoreName: "Shop", ScriptURL: testScriptURL,
		ScriptTag: `<script src="` + testScriptURL + `" data-searchier-store="` + storeID + `"></script>`,
		Installed: true, InstalledAt: &now,
	})
	require.NoError(t, err)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

