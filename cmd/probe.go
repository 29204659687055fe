package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"searchier/pkg/logger"
	"searchier/pkg/widget"
)

// probeCommand 用店铺页面上的 script 标签模拟一次 widget 搜索，排查安装问题
func probeCommand() *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "按 script 标签调用公开接口，模拟 widget 搜索",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tag", Usage: "店铺 header 中的 searchier script 标签", Required: true},
			&cli.StringFlag{Name: "q", Usage: "搜索词，为空时加载默认列表"},
			&cli.IntFlag{Name: "pages", Value: 1, Usage: "最多加载的页数"},
			&cli.StringFlag{Name: "page-html", Usage: "店铺页面 HTML 文件，用于检查触发器"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second},
		},
		Action: runProbe,
	}
}

func runProbe(c *cli.Context) error {
	log, err := logger.New("info", "development")
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	embed, err := widget.ParseEmbed(c.String("tag"))
	if err != nil {
		return err
	}
	log.Info("解析 script 标签",
		zap.String("store_id", embed.StoreID),
		zap.String("store_slug", embed.StoreSlug),
		zap.String("api", embed.APIBase))

	client := widget.NewHTTPClient(embed.APIBase)
	ctrl := widget.NewController(widget.Options{
		StoreID: embed.StoreID,
		Fetcher: client,
		Events:  client,
		Log:     log,
	})
	defer ctrl.Stop()

	if path := c.String("page-html"); path != "" {
		if err := probeTriggers(path, ctrl, embed.StoreID, client, log); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	if q := c.String("q"); q != "" {
		ctrl.Input(q)
		// 等防抖窗口结束再等请求
		select {
		case <-time.After(widget.DefaultDebounce + 50*time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	} else {
		ctrl.Open()
	}
	ctrl.Wait()

	for page := 1; page < c.Int("pages") && ctrl.Snapshot().HasMore; page++ {
		ctrl.LoadMore()
		ctrl.Wait()
	}

	snap := ctrl.Snapshot()
	for _, edge := range snap.Edges {
		fmt.Printf("%-24s %-40s %s\n", edge.Node.ID, edge.Node.Name, widget.ProductPath(edge.Node))
	}
	log.Info("搜索完成",
		zap.String("state", snap.State.String()),
		zap.Int("results", len(snap.Edges)),
		zap.Bool("has_more", snap.HasMore))
	return nil
}

// probeTriggers 统计页面上会被 widget 绑定的触发器
func probeTriggers(path string, modal *widget.Controller, storeID string, client *widget.HTTPClient, log *zap.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := widget.ParseDocument(string(raw))
	if err != nil {
		return err
	}

	observer := widget.NewObserver(modal, func(*html.Node) *widget.Controller {
		return widget.NewController(widget.Options{StoreID: storeID, Fetcher: client, Events: client, Log: log})
	}, log)

	inline := 0
	for _, b := range observer.Scan(doc) {
		if b.Inline {
			inline++
			b.Controller.Stop()
		}
	}
	if observer.Len() == 0 {
		log.Warn("页面上没有 [data-searchier] 或 #searchier 触发器")
		return nil
	}
	log.Info("触发器", zap.Int("total", observer.Len()), zap.Int("inline", inline))
	return nil
}
