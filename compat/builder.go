package compat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/sinklog"
)

// Builder provides a flexible way to create configured logger adapters for
// gnet, fasthttp, Fiber and zap. It can use an existing sinklog.Logger or
// create a file logger from a *sinklog.Config.
type Builder struct {
	logger sinklog.Logger
	logCfg *sinklog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters
// Recommended for applications that already have a central logger instance
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l sinklog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("sinklog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new file logger
// This is used only if an existing logger is NOT provided via WithLogger
// If neither WithLogger nor WithConfig is used, the default configuration is used
func (b *Builder) WithConfig(cfg *sinklog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (sinklog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	// An existing logger was provided, so we use it
	if b.logger != nil {
		return b.logger, nil
	}

	l, err := sinklog.NewFileLogger(b.logCfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildStructuredGnet creates a gnet adapter that attaches key/value pairs
// found in format strings to each entry
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildFiber creates a Fiber adapter
func (b *Builder) BuildFiber(opts ...FiberOption) (*FiberAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFiberAdapter(l, opts...), nil
}

// BuildZap creates a *zap.Logger writing through the logger
func (b *Builder) BuildZap(opts ...zap.Option) (*zap.Logger, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l, opts...), nil
}

// GetLogger returns the underlying logger
// If a logger has not been provided or created yet, it will be initialized
func (b *Builder) GetLogger() (sinklog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	// 1. Create the application's main logger
//	appLogger, err := sinklog.NewBuilder().
//		Directory("/var/log/app").
//		Level(sinklog.LevelDebug).
//		Build()
//	if err != nil { /* handle error */ }
//	defer appLogger.Close()
//
//	// 2. Create a builder and provide the existing logger
//	builder := compat.NewBuilder().WithLogger(appLogger)
//
//	// 3. Build the required adapters
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	zapLogger, _ := builder.BuildZap()
//
//	// 4. Configure your servers with the adapters
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
//
//	zapLogger.Info("ready", zap.Int("port", 8080))
