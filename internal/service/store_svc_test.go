package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchier/internal/repository"
	"searchier/pkg/lightfunnels"
)

func makeStores(n int) []lightfunnels.Store {
	stores := make([]lightfunnels.Store, 0, n)
	for i := 1; i <= n; i++ {
		stores = append(stores, lightfunnels.Store{
			ID:   fmt.Sprintf("store_%d", i),
			Name: fmt.Sprintf("Shop %d", i),
			Slug: fmt.Sprintf("shop-%d", i),
		})
	}
	return stores
}

func TestPaginateStores_NoDuplicateNoGap(t *testing.T) {
	stores := makeStores(45)

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		conn := PaginateStores(stores, "", cursor, 20)
		pages++
		for _, edge := range conn.Edges {
			if seen[edge.Node.ID] {
				t.Fatalf("店铺 %s 重复出现", edge.Node.ID)
			}
			seen[edge.Node.ID] = true
			assert.Equal(t, edge.Node.ID, edge.Cursor)
		}
		if !conn.PageInfo.HasNextPage {
			break
		}
		require.NotNil(t, conn.PageInfo.EndCursor)
		cursor = *conn.PageInfo.EndCursor
	}
	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 45)
}

func TestPaginateStores_Filter(t *testing.T) {
	primary := "Boutique.Example.com"
	fallback := "other.lightfunnels.com"
	stores := []lightfunnels.Store{
		{ID: "a", Name: "Alpha", Slug: "alpha"},
		{ID: "b", Name: "Beta", Slug: "beta", PrimaryDomain: &lightfunnels.Domain{ID: "d", Name: &primary}},
		{ID: "c", Name: "Gamma", Slug: "gamma", DefaultDomain: &fallback},
	}

	conn := PaginateStores(stores, "  BOUTIQUE ", "", 0)
	require.Len(t, conn.Edges, 1)
	assert.Equal(t, "b", conn.Edges[0].Node.ID)

	conn = PaginateStores(stores, "lightfunnels", "", 0)
	require.Len(t, conn.Edges, 1)
	assert.Equal(t, "c", conn.Edges[0].Node.ID)

	conn = PaginateStores(stores, "nothing", "", 0)
	assert.Empty(t, conn.Edges)
	assert.Nil(t, conn.PageInfo.EndCursor)
	assert.False(t, conn.PageInfo.HasNextPage)
}

func TestPaginateStores_UnknownCursorStartsFromBeginning(t *testing.T) {
	conn := PaginateStores(makeStores(3), "", "store_missing", 2)
	require.Len(t, conn.Edges, 2)
	assert.Equal(t, "store_1", conn.Edges[0].Node.ID)
	assert.True(t, conn.PageInfo.HasNextPage)
}

func TestStoreService_GetStore(t *testing.T) {
	db := setupSearchierTestDB(t)
	users := repository.NewUserRepository(db)
	user := seedLinkedUser(t, users, "tok")

	api := newFakeLightfunnels()
	api.stores = makeStores(3)
	svc := NewStoreService(NewTokenService(users), api, nopLogger())

	store, err := svc.GetStore(context.Background(), user.ID, "store_2")
	require.NoError(t, err)
	assert.Equal(t, "Shop 2", store.Name)

	_, err = svc.GetStore(context.Background(), user.ID, "store_9")
	assert.ErrorIs(t, err, ErrStoreNotFound)

	conn, err := svc.List(context.Background(), StoreListInput{UserID: user.ID, First: 2})
	require.NoError(t, err)
	assert.Len(t, conn.Edges, 2)
	assert.True(t, conn.PageInfo.HasNextPage)
}
