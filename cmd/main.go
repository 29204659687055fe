package main

//go:generate swag init -g main.go -d ./,../internal,../pkg --outputTypes go -o ../docs

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// @title           Searchier API
// @version         1.0
// @description     Lightfunnels 店铺搜索 widget 后端：商品搜索代理、脚本安装、搜索分析
// @BasePath        /
// @securityDefinitions.apikey SessionCookie
// @in              cookie
// @name            searchier.session-token

func main() {
	app := &cli.App{
		Name:  "searchier",
		Usage: "Lightfunnels 店铺搜索 widget 服务",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			probeCommand(),
		},
		// 不带子命令时直接启动服务
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "searchier: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "迁移数据库、启动定时任务并监听 HTTP",
		Action: runServe,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "只执行建表与事件分区初始化",
		Action: runMigrate,
	}
}
