package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchier/pkg/lightfunnels"
)

// ==================== 测试辅助 ====================

type fetchCall struct {
	query  string
	cursor string
	first  int
}

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []fetchCall
	respond func(call fetchCall) (*lightfunnels.ProductConnection, error)
}

func (f *fakeFetcher) FetchProducts(ctx context.Context, storeID, query, cursor string, first int) (*lightfunnels.ProductConnection, error) {
	call := fetchCall{query: query, cursor: cursor, first: first}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return page(query, 0, first, false), nil
	}
	return respond(call)
}

func (f *fakeFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

type fakeSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *fakeSink) SendEvent(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *fakeSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// page 生成 n 条以 query 命名的商品，offset 起编号
func page(query string, offset, n int, hasNext bool) *lightfunnels.ProductConnection {
	edges := make([]lightfunnels.ProductEdge, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("product_%s%d", query, offset+i)
		edges = append(edges, lightfunnels.ProductEdge{Cursor: id, Node: lightfunnels.Product{ID: id, Name: id}})
	}
	var end *string
	if n > 0 {
		last := edges[n-1].Cursor
		end = &last
	}
	return &lightfunnels.ProductConnection{
		Edges:    edges,
		PageInfo: lightfunnels.ProductPageInfo{PageInfo: lightfunnels.PageInfo{HasNextPage: hasNext, EndCursor: end}},
	}
}

func newTestController(f *fakeFetcher, s *fakeSink) *Controller {
	return NewController(Options{
		StoreID:  "store_1",
		Fetcher:  f,
		Events:   s,
		Debounce: MinDebounce,
	})
}

// ==================== 防抖 ====================

func TestClampDebounce(t *testing.T) {
	assert.Equal(t, DefaultDebounce, ClampDebounce(0))
	assert.Equal(t, MinDebounce, ClampDebounce(10*time.Millisecond))
	assert.Equal(t, MaxDebounce, ClampDebounce(2*time.Second))
	assert.Equal(t, 300*time.Millisecond, ClampDebounce(300*time.Millisecond))
}

func TestController_DebounceCollapsesKeystrokes(t *testing.T) {
	f := &fakeFetcher{}
	s := &fakeSink{}
	c := newTestController(f, s)
	defer c.Stop()

	for _, text := range []string{"b", "ba", "bag", "bags", "bag"} {
		c.Input(text)
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, 2*time.Second, 10*time.Millisecond)
	c.Wait()
	// 窗口过后不再有请求
	time.Sleep(MinDebounce + 50*time.Millisecond)

	calls := f.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "bag", calls[0].query)
	assert.Equal(t, QueryPageSize, calls[0].first)
}

// ==================== 过期响应 ====================

func TestController_DropsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	f := &fakeFetcher{respond: func(call fetchCall) (*lightfunnels.ProductConnection, error) {
		if call.query == "ba" {
			<-release
		}
		return page(call.query, 0, 2, false), nil
	}}
	s := &fakeSink{}
	c := newTestController(f, s)
	defer c.Stop()

	c.applyInput("ba")
	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	c.applyInput("bag")
	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return !snap.Loading && len(snap.Edges) == 2
	}, time.Second, 5*time.Millisecond)

	// 先发出的请求后返回
	close(release)
	c.Wait()

	snap := c.Snapshot()
	assert.Equal(t, "bag", snap.Query)
	require.Len(t, snap.Edges, 2)
	assert.Equal(t, "product_bag0", snap.Edges[0].Node.ID)
	assert.Equal(t, StateShowingResults, snap.State)

	// 只有生效的查询上报了事件
	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "bag", *events[0].Query)
	assert.Equal(t, 2, *events[0].ResultsCount)
}

// ==================== 分页与清空 ====================

func TestController_LoadMoreAppends(t *testing.T) {
	f := &fakeFetcher{respond: func(call fetchCall) (*lightfunnels.ProductConnection, error) {
		if call.cursor == "" {
			return page(call.query, 0, QueryPageSize, true), nil
		}
		return page(call.query, QueryPageSize, 3, false), nil
	}}
	s := &fakeSink{}
	c := newTestController(f, s)
	defer c.Stop()

	c.applyInput("bag")
	c.Wait()
	snap := c.Snapshot()
	require.True(t, snap.HasMore)
	assert.Equal(t, "product_bag7", snap.Cursor)

	c.LoadMore()
	c.Wait()

	snap = c.Snapshot()
	assert.Len(t, snap.Edges, QueryPageSize+3)
	assert.False(t, snap.HasMore)
	assert.Equal(t, "product_bag7", f.Calls()[1].cursor)
	assert.Len(t, s.Events(), 1, "加载更多不上报事件")

	// 没有下一页时不再请求
	c.LoadMore()
	c.Wait()
	assert.Len(t, f.Calls(), 2)
}

func TestController_ClearBeforeInitializedHides(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f, &fakeSink{})
	defer c.Stop()

	c.applyInput("   ")
	c.Wait()
	assert.Empty(t, f.Calls())
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestController_ClearAfterInitializedReloadsDefault(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f, &fakeSink{})
	defer c.Stop()

	c.Open()
	c.Wait()
	c.applyInput("bag")
	c.Wait()
	c.applyInput("")
	c.Wait()

	calls := f.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, DefaultPageSize, calls[0].first)
	assert.Equal(t, QueryPageSize, calls[1].first)
	assert.Equal(t, fetchCall{query: "", first: DefaultPageSize}, calls[2])
}

func TestController_OpenLoadsDefaultList(t *testing.T) {
	f := &fakeFetcher{}
	s := &fakeSink{}
	c := newTestController(f, s)
	defer c.Stop()

	c.Open()
	c.Wait()

	snap := c.Snapshot()
	assert.True(t, snap.Open)
	assert.True(t, snap.Initialized)
	assert.Len(t, snap.Edges, DefaultPageSize)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventSearch, events[0].Type)
	assert.Equal(t, "", *events[0].Query)

	c.Close()
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestController_FetchErrorKeepsState(t *testing.T) {
	f := &fakeFetcher{respond: func(call fetchCall) (*lightfunnels.ProductConnection, error) {
		return nil, errors.New("boom")
	}}
	s := &fakeSink{}
	c := newTestController(f, s)
	defer c.Stop()

	c.applyInput("bag")
	c.Wait()

	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Edges)
	assert.Empty(t, s.Events())
}

// ==================== 点击 ====================

func TestController_Activate(t *testing.T) {
	s := &fakeSink{err: errors.New("analytics down")}
	var navigated string
	c := NewController(Options{
		StoreID:  "store_1",
		Fetcher:  &fakeFetcher{},
		Events:   s,
		Navigate: func(path string) { navigated = path },
	})
	defer c.Stop()

	path := c.Activate(lightfunnels.ProductEdge{Node: lightfunnels.Product{ID: "product_123", Name: "Bag"}})
	assert.Equal(t, "/products/123", path)
	assert.Equal(t, path, navigated, "上报失败不影响跳转")

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventClick, events[0].Type)
	assert.Equal(t, "123", *events[0].ProductSlug)
	assert.Equal(t, "product_123", *events[0].ProductID)
}

func TestProductSlug(t *testing.T) {
	assert.Equal(t, "bag", ProductSlug(lightfunnels.Product{ID: "product_1", Slug: "bag"}))
	assert.Equal(t, "99", ProductSlug(lightfunnels.Product{ID: "a_b_99"}))
	assert.Equal(t, "plain", ProductSlug(lightfunnels.Product{ID: "plain"}))
}

func TestController_StopRacesDebounce(t *testing.T) {
	for i := 0; i < 50; i++ {
		f := &fakeFetcher{}
		c := NewController(Options{StoreID: "store_1", Fetcher: f, Debounce: MinDebounce})

		// applyInput 即已触发的防抖回调
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.applyInput(fmt.Sprintf("q%d", j))
			}
		}()
		go func() {
			defer wg.Done()
			c.Stop()
		}()
		wg.Wait()
		c.Wait()
	}
}

func TestController_NoFetchAfterStop(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f, &fakeSink{})
	c.Stop()

	c.Open()
	c.Input("bag")
	c.LoadMore()
	time.Sleep(MinDebounce + 100*time.Millisecond)
	c.Wait()

	assert.Empty(t, f.Calls())
	assert.False(t, c.Snapshot().Loading)
}
