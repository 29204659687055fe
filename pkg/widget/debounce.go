package widget

import (
	"sync"
	"time"
)

// 防抖窗口
const (
	MinDebounce     = 250 * time.Millisecond
	MaxDebounce     = 500 * time.Millisecond
	DefaultDebounce = MaxDebounce
)

// ClampDebounce 0 取默认值，其余限制在 [MinDebounce, MaxDebounce]
func ClampDebounce(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultDebounce
	case d < MinDebounce:
		return MinDebounce
	case d > MaxDebounce:
		return MaxDebounce
	}
	return d
}

// Debouncer 每次 Trigger 取消未触发的回调并重新计时
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: ClampDebounce(window)}
}

// Window 生效的窗口
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Trigger 窗口内没有新的 Trigger 时执行 fn
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop 取消未触发的回调
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
