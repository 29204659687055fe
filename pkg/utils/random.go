package utils

import (
	"crypto/rand"
	"strings"
)

// stateCharset 64 个 URL 安全字符，256 能被整除，取模没有偏差
const stateCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

// GenerateRandomString 生成指定长度的 URL 安全随机串，用作 OAuth state
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	var result strings.Builder
	result.Grow(length)
	for _, bVal := range b {
		result.WriteByte(stateCharset[bVal&63])
	}
	return result.String(), nil
}
