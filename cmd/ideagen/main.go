// Package main ideagen 命令行工具，调用创意生成服务并订阅指标事件
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}
