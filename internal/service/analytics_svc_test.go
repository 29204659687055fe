package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"searchier/internal/model"
	"searchier/internal/repository"
)

func newAnalyticsService(t *testing.T) *AnalyticsService {
	t.Helper()
	db := setupSearchierTestDB(t)
	return NewAnalyticsService(repository.NewSearchEventRepository(db), nopLogger())
}

func TestAnalyticsService_EmptySummary(t *testing.T) {
	svc := newAnalyticsService(t)

	summary, err := svc.Summarize(context.Background(), 42)
	require.NoError(t, err)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"dailySearches":[],"topQueries":[],"topProducts":[],"totalSearches":0,"totalClicks":0}`,
		string(raw),
	)
}

func TestAnalyticsService_RecordAndSummarize(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()

	events := []model.SearchEvent{
		{UserID: 1, StoreID: "store_1", Type: model.EventTypeSearch, Query: strPtr("bag")},
		{UserID: 1, StoreID: "store_1", Type: model.EventTypeSearch, Query: strPtr("bag")},
		{UserID: 1, StoreID: "store_2", Type: model.EventTypeSearch, Query: strPtr("shoe")},
		{UserID: 1, StoreID: "store_1", Type: model.EventTypeClick, ProductID: strPtr("product_1"), ProductName: strPtr("Bag"), ProductSlug: strPtr("bag")},
		{UserID: 2, StoreID: "store_9", Type: model.EventTypeSearch, Query: strPtr("other")},
	}
	for i := range events {
		// 客户端传来的 ID 会被忽略
		events[i].ID = 999
		require.NoError(t, svc.Record(ctx, &events[i]))
	}

	summary, err := svc.Summarize(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.TotalSearches)
	assert.EqualValues(t, 1, summary.TotalClicks)
	require.NotEmpty(t, summary.TopQueries)
	assert.Equal(t, "bag", *summary.TopQueries[0].Query)
	assert.EqualValues(t, 2, summary.TopQueries[0].Count)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, "Bag", *summary.TopProducts[0].ProductName)
	require.Len(t, summary.DailySearches, 1)
	assert.EqualValues(t, 3, summary.DailySearches[0].Count)
}

func TestAnalyticsService_RecordValidation(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()

	cases := map[string]model.SearchEvent{
		"missing user":  {StoreID: "store_1", Type: model.EventTypeSearch},
		"missing store": {UserID: 1, Type: model.EventTypeSearch},
		"bad type":      {UserID: 1, StoreID: "store_1", Type: "view"},
	}
	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.Record(ctx, &event)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAnalyticsService_LongQueryIsKept(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()

	long := strings.Repeat("leather bag ", 200)
	require.NoError(t, svc.Record(ctx, &model.SearchEvent{
		UserID: 1, StoreID: "store_1", Type: model.EventTypeSearch, Query: strPtr(long),
	}))

	summary, err := svc.Summarize(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary.TopQueries, 1)
	assert.Equal(t, long, *summary.TopQueries[0].Query)
	assert.EqualValues(t, 1, summary.TotalSearches)
}

func TestSearchEvent_FreeTextColumnsUnbounded(t *testing.T) {
	// sqlite 不校验 varchar 长度，这里直接检查 schema
	s, err := schema.Parse(&model.SearchEvent{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, name := range []string{"StoreID", "Query", "ProductID", "ProductName", "ProductSlug"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.Equal(t, schema.DataType("text"), field.DataType, name)
		assert.Zero(t, field.Size, name)
	}
}
