package widget

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TriggerSelector 触发器选择器，与前端脚本保持一致
const TriggerSelector = "[data-searchier], #searchier"

// Binding 一个触发器节点与其控制器
type Binding struct {
	Node       *html.Node
	Inline     bool
	Controller *Controller
}

// Mutation 一批新增节点
type Mutation struct {
	Added []*html.Node
}

// Observer 在文档树中查找触发器，每个节点只绑定一次
type Observer struct {
	modal     *Controller
	newInline func(*html.Node) *Controller
	log       *zap.Logger

	mu       sync.Mutex
	bindings map[*html.Node]*Binding
}

// NewObserver modal 为共享弹窗控制器；newInline 为输入框创建独立控制器
func NewObserver(modal *Controller, newInline func(*html.Node) *Controller, log *zap.Logger) *Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{
		modal:     modal,
		newInline: newInline,
		log:       log,
		bindings:  make(map[*html.Node]*Binding),
	}
}

// IsTrigger 带 data-searchier 属性或 id 为 searchier 的元素
func IsTrigger(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		if a.Key == "data-searchier" {
			return true
		}
		if a.Key == "id" && a.Val == "searchier" {
			return true
		}
	}
	return false
}

// Scan 遍历 root 子树，返回本次新绑定的触发器
func (o *Observer) Scan(root *html.Node) []*Binding {
	var added []*Binding
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if IsTrigger(n) {
			if b := o.attach(n); b != nil {
				added = append(added, b)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return added
}

func (o *Observer) attach(n *html.Node) *Binding {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.bindings[n]; ok {
		return nil
	}

	b := &Binding{Node: n}
	if n.DataAtom == atom.Input && o.newInline != nil {
		b.Inline = true
		b.Controller = o.newInline(n)
	} else {
		b.Controller = o.modal
	}
	o.bindings[n] = b
	o.log.Debug("[Widget] 绑定触发器", zap.String("tag", n.Data), zap.Bool("inline", b.Inline))
	return b
}

// Observe 持续处理新增节点，直到 ctx 结束或通道关闭
func (o *Observer) Observe(ctx context.Context, mutations <-chan Mutation) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-mutations:
			if !ok {
				return nil
			}
			for _, n := range m.Added {
				o.Scan(n)
			}
		}
	}
}

// Binding 查询节点的绑定
func (o *Observer) Binding(n *html.Node) (*Binding, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.bindings[n]
	return b, ok
}

// Len 已绑定的触发器数量
func (o *Observer) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.bindings)
}

// ParseDocument 解析 HTML 文档
func ParseDocument(doc string) (*html.Node, error) {
	return html.Parse(strings.NewReader(doc))
}
