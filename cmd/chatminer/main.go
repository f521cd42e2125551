package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// 中断时放弃当前文件，不写出部分结果
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
