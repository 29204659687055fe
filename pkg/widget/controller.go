package widget

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"searchier/pkg/lightfunnels"
)

// State 面板状态
type State int

const (
	StateIdle State = iota
	StateSearching
	StateShowingResults
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateShowingResults:
		return "showing_results"
	default:
		return "idle"
	}
}

// Options 控制器配置
type Options struct {
	StoreID  string
	Fetcher  Fetcher
	Events   EventSink
	Debounce time.Duration
	// Navigate 点击商品后跳转，为空时只返回路径
	Navigate func(path string)
	// OnChange 状态变化后回调，在锁外执行
	OnChange func(Snapshot)
	Log      *zap.Logger
}

// Snapshot 某一时刻的只读状态
type Snapshot struct {
	State       State
	Open        bool
	Query       string
	Edges       []lightfunnels.ProductEdge
	Cursor      string
	HasMore     bool
	Loading     bool
	Initialized bool
}

// Controller 单个搜索实例（弹窗或内联输入框）
// generation 在每次新查询时递增，旧查询的响应到达后直接丢弃
type Controller struct {
	opts      Options
	debouncer *Debouncer
	log       *zap.Logger

	mu          sync.Mutex
	open        bool
	query       string
	edges       []lightfunnels.ProductEdge
	cursor      string
	hasMore     bool
	loading     bool
	initialized bool
	generation  uint64
	stopped     bool

	inflight sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewController(opts Options) *Controller {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:      opts,
		debouncer: NewDebouncer(opts.Debounce),
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Open 打开面板；首次打开或没有结果时加载默认列表
func (c *Controller) Open() {
	c.mu.Lock()
	c.open = true
	initialized, query, empty := c.initialized, c.query, len(c.edges) == 0
	c.mu.Unlock()

	switch {
	case !initialized || (query == "" && empty):
		c.load(true, DefaultPageSize)
	case query != "":
		c.load(true, QueryPageSize)
	default:
		c.notify()
	}
}

// Close 关闭面板，已加载的结果保留
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
	c.notify()
}

// Input 输入变化，防抖后执行
func (c *Controller) Input(text string) {
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		return
	}
	c.debouncer.Trigger(func() { c.applyInput(text) })
}

func (c *Controller) applyInput(text string) {
	query := strings.TrimSpace(text)

	c.mu.Lock()
	c.query = query
	c.cursor = ""
	if query != "" {
		c.open = true
		c.mu.Unlock()
		c.load(true, QueryPageSize)
		return
	}

	c.edges = nil
	if c.initialized {
		c.mu.Unlock()
		c.load(true, DefaultPageSize)
		return
	}
	// 未初始化时清空输入只隐藏结果，并作废进行中的请求
	c.generation++
	c.loading = false
	c.mu.Unlock()
	c.notify()
}

// LoadMore 追加下一页，不上报事件
func (c *Controller) LoadMore() {
	c.mu.Lock()
	hasMore, query := c.hasMore, c.query
	c.mu.Unlock()
	if !hasMore {
		return
	}
	size := DefaultPageSize
	if query != "" {
		size = QueryPageSize
	}
	c.load(false, size)
}

// Activate 上报点击并返回商品路径
func (c *Controller) Activate(edge lightfunnels.ProductEdge) string {
	c.mu.Lock()
	query := c.query
	c.mu.Unlock()

	slug := ProductSlug(edge.Node)
	c.sendEvent(Event{
		StoreID:     c.opts.StoreID,
		Type:        EventClick,
		Query:       &query,
		ProductID:   &edge.Node.ID,
		ProductName: &edge.Node.Name,
		ProductSlug: &slug,
	})

	path := ProductPath(edge.Node)
	if c.opts.Navigate != nil {
		c.opts.Navigate(path)
	}
	return path
}

// Snapshot 当前状态
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	state := StateIdle
	switch {
	case c.loading:
		state = StateSearching
	case c.open && c.initialized:
		state = StateShowingResults
	}
	edges := make([]lightfunnels.ProductEdge, len(c.edges))
	copy(edges, c.edges)
	return Snapshot{
		State:       state,
		Open:        c.open,
		Query:       c.query,
		Edges:       edges,
		Cursor:      c.cursor,
		HasMore:     c.hasMore,
		Loading:     c.loading,
		Initialized: c.initialized,
	}
}

// Wait 等待进行中的请求结束
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Stop 取消防抖和进行中的请求，之后的操作都不再发起请求
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	c.debouncer.Stop()
	c.cancel()
	c.inflight.Wait()
}

// load reset 为新查询，否则按游标追加
func (c *Controller) load(reset bool, limit int) {
	c.mu.Lock()
	// inflight.Add 必须在 Stop 的 Wait 之前，stopped 与 Add 同锁
	if c.stopped || (!reset && c.loading) {
		c.mu.Unlock()
		return
	}
	if reset {
		c.generation++
		c.cursor = ""
	}
	gen := c.generation
	query, cursor := c.query, c.cursor
	c.loading = true
	c.inflight.Add(1)
	c.mu.Unlock()
	c.notify()

	go func() {
		defer c.inflight.Done()
		conn, err := c.opts.Fetcher.FetchProducts(c.ctx, c.opts.StoreID, query, cursor, limit)

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		c.loading = false
		if err != nil {
			c.mu.Unlock()
			c.log.Error("[Widget] 加载商品失败", zap.String("query", query), zap.Error(err))
			c.notify()
			return
		}

		edges := conn.Edges
		if reset {
			c.edges = append([]lightfunnels.ProductEdge(nil), edges...)
		} else {
			c.edges = append(c.edges, edges...)
		}
		c.cursor = ""
		if conn.PageInfo.EndCursor != nil {
			c.cursor = *conn.PageInfo.EndCursor
		}
		c.hasMore = conn.PageInfo.HasNextPage
		c.initialized = true
		count := len(c.edges)
		c.mu.Unlock()

		if reset {
			c.sendEvent(Event{StoreID: c.opts.StoreID, Type: EventSearch, Query: &query, ResultsCount: &count})
		}
		c.notify()
	}()
}

// sendEvent 失败只记 warn
func (c *Controller) sendEvent(event Event) {
	if c.opts.Events == nil {
		return
	}
	if err := c.opts.Events.SendEvent(c.ctx, event); err != nil {
		c.log.Warn("[Widget] 事件上报失败", zap.String("type", event.Type), zap.Error(err))
	}
}

func (c *Controller) notify() {
	if c.opts.OnChange == nil {
		return
	}
	c.opts.OnChange(c.Snapshot())
}
