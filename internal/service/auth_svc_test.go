package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchier/internal/config"
	"searchier/internal/middleware"
	"searchier/internal/model"
	"searchier/internal/repository"
	"searchier/pkg/lightfunnels"
)

// newTokenServer 模拟 /oauth/access_token
func newTokenServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/oauth/access_token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_1", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret_1", r.PostForm.Get("client_secret"))

		access := "tok_new"
		if r.PostForm.Get("grant_type") == "refresh_token" {
			access = "tok_refreshed"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + access + `","token_type":"bearer","refresh_token":"ref_1","expires_in":3600,"scope":"orders,products"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAuthFixture(t *testing.T, hits *int32) (*AuthService, *fakeLightfunnels, repository.UserRepository) {
	t.Helper()
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:  "test-secret",
		SessionTTL: time.Hour,
		Issuer:     "searchier",
	})
	t.Cleanup(func() { middleware.SetJWTConfig(middleware.DefaultJWTConfig()) })

	srv := newTokenServer(t, hits)
	cfg := &config.Config{
		AppURL: "https://searchier.example.com",
		Lightfunnels: config.LightfunnelsConfig{
			URL:          srv.URL,
			FrontURL:     "https://app.lightfunnels.com",
			ClientID:     "client_1",
			ClientSecret: "secret_1",
			Scopes:       "orders,products",
		},
	}

	db := setupSearchierTestDB(t)
	users := repository.NewUserRepository(db)
	api := newFakeLightfunnels()
	api.account = &lightfunnels.Account{ID: "acc_1", Email: "merchant@example.com", AccountName: "Merchant"}
	return NewAuthService(users, api, NewOAuthConfig(cfg), nopLogger()), api, users
}

func stateFromURL(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestAuthService_GenerateLoginURL(t *testing.T) {
	var hits int32
	svc, _, _ := newAuthFixture(t, &hits)

	raw, err := svc.GenerateLoginURL(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/admin/oauth", u.Path)
	assert.Equal(t, "client_1", u.Query().Get("client_id"))
	assert.Equal(t, "orders,products", u.Query().Get("scope"))
	assert.Equal(t, "https://searchier.example.com/api/auth/callback", u.Query().Get("redirect_uri"))
	assert.NotEmpty(t, u.Query().Get("state"))
}

func TestAuthService_HandleCallback(t *testing.T) {
	var hits int32
	svc, api, users := newAuthFixture(t, &hits)
	ctx := context.Background()

	loginURL, err := svc.GenerateLoginURL(ctx)
	require.NoError(t, err)
	state := stateFromURL(t, loginURL)

	result, err := svc.HandleCallback(ctx, "code_1", state)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	assert.Equal(t, "tok_new", api.lastToken)
	assert.Equal(t, "merchant@example.com", result.User.Email)
	assert.NotEmpty(t, result.SessionToken)

	claims, err := middleware.ParseToken(result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)

	account, err := users.GetAccountByUser(ctx, result.User.ID, model.ProviderLightfunnels)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "tok_new", account.AccessToken)
	assert.Equal(t, "ref_1", account.RefreshToken)
	assert.Equal(t, "orders,products", account.Scope)
	assert.NotNil(t, account.TokenExpiresAt)

	// state 只能使用一次
	_, err = svc.HandleCallback(ctx, "code_1", state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAuthService_HandleCallbackReusesUser(t *testing.T) {
	var hits int32
	svc, _, _ := newAuthFixture(t, &hits)
	ctx := context.Background()

	login := func() *LoginResult {
		loginURL, err := svc.GenerateLoginURL(ctx)
		require.NoError(t, err)
		result, err := svc.HandleCallback(ctx, "code", stateFromURL(t, loginURL))
		require.NoError(t, err)
		return result
	}

	first := login()
	second := login()
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestAuthService_HandleCallbackInvalidState(t *testing.T) {
	var hits int32
	svc, _, _ := newAuthFixture(t, &hits)

	_, err := svc.HandleCallback(context.Background(), "code", "")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.HandleCallback(context.Background(), "code", "never-issued")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.EqualValues(t, 0, atomic.LoadInt32(&hits))
}

func TestAuthService_RefreshAccount(t *testing.T) {
	var hits int32
	svc, _, users := newAuthFixture(t, &hits)
	ctx := context.Background()

	user := seedLinkedUser(t, users, "tok_old")
	account, err := users.GetAccountByUser(ctx, user.ID, model.ProviderLightfunnels)
	require.NoError(t, err)

	err = svc.RefreshAccount(ctx, *account)
	assert.Error(t, err, "没有 refresh token 时应当失败")

	account.RefreshToken = "ref_old"
	require.NoError(t, svc.RefreshAccount(ctx, *account))

	updated, err := users.GetAccountByUser(ctx, user.ID, model.ProviderLightfunnels)
	require.NoError(t, err)
	assert.Equal(t, "tok_refreshed", updated.AccessToken)
	assert.Equal(t, "ref_1", updated.RefreshToken)
	require.NotNil(t, updated.TokenExpiresAt)
	assert.True(t, updated.TokenExpiresAt.After(time.Now()))
}

func TestAuthService_CurrentUser(t *testing.T) {
	var hits int32
	svc, _, users := newAuthFixture(t, &hits)
	user := seedLinkedUser(t, users, "tok")

	got, err := svc.CurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.CurrentUser(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.CurrentUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenService_Lookup(t *testing.T) {
	db := setupSearchierTestDB(t)
	users := repository.NewUserRepository(db)
	tokens := NewTokenService(users)

	user := seedLinkedUser(t, users, "tok_1")
	token, err := tokens.Lookup(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok_1", token)

	_, err = tokens.Lookup(context.Background(), user.ID+1)
	assert.ErrorIs(t, err, ErrMissingToken)
}
