// Package web 内嵌 widget 前端脚本
package web

import _ "embed"

// WidgetScript /searchier.js 的内容
//
//go:embed searchier.js
var WidgetScript []byte
