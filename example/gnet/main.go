// FILE: example/gnet/main.go
package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := sinklog.NewBuilder().
		Directory("/var/log/gnet").
		Level(sinklog.LevelDebug).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	// Mirror everything to the console while keeping the file as the owner
	both, err := sinklog.Combine(logger, sinklog.NewConsoleLogger())
	if err != nil {
		panic(err)
	}

	gnetAdapter := compat.NewStructuredGnetAdapter(both)

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
