package main

import (
	"context"
	"time"

	"github.com/niksmo/solarcomp/config"
	"github.com/niksmo/solarcomp/internal/app"
	"github.com/niksmo/solarcomp/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	solarcomp := app.New(sigCtx, cfg)

	solarcomp.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	solarcomp.Close(ctx)
}
