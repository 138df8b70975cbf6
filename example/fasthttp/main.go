// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/compat"
)

func main() {
	// Create and configure logger
	cfg := sinklog.DefaultConfig()
	if err := cfg.ApplyOverride(
		"directory=/var/log/fasthttp",
		"level=info",
		"max_size_mb=50",
		"auto_flush=false",
	); err != nil {
		panic(err)
	}

	shared, err := sinklog.FromConfig(cfg).BuildShared()
	if err != nil {
		panic(err)
	}
	defer shared.Close()

	// The server and the handlers each hold their own reference
	serverLog, err := shared.Clone()
	if err != nil {
		panic(err)
	}
	defer serverLog.Close()

	builder := compat.NewBuilder().WithLogger(shared)
	appLog, err := builder.BuildZap()
	if err != nil {
		panic(err)
	}
	defer appLog.Sync()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		serverLog,
		compat.WithDefaultLevel(sinklog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler(appLog),
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(appLog *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("text/plain")
		fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
		appLog.Info("request served",
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", ctx.Response.StatusCode()),
		)
	}
}

func customLevelDetector(msg string) sinklog.Level {
	// Custom logic to detect log levels
	// Can inspect specific fasthttp message patterns

	if strings.Contains(msg, "connection cannot be served") {
		return sinklog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return sinklog.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
