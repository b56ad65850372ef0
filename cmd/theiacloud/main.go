package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/theiacloud/theiacloud-go/internal/cli"
	"github.com/theiacloud/theiacloud-go/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger(zerolog.WarnLevel)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
