package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"

	"github.com/voxely/voxelize-go/server"
)

type config struct {
	Addr      string `cli:"" env:"VOXELIZE_ADDR"       help:"Listening address for the voxelize API."`
	PprofAddr string `cli:"" env:"VOXELIZE_PPROF_ADDR" help:"Listening address for the pprof endpoints."`
	LogLevel  string `cli:"" env:"VOXELIZE_LOG_LEVEL"  help:"Log level (debug|info|warning|error)."`
	LogIndent bool   `cli:"" env:"VOXELIZE_LOG_INDENT" help:"Indent logs."`
	Help      bool   `cli:"" env:"-"                   help:"Show help."`
}

func main() {
	conf := config{
		Addr:      ":8080",
		PprofAddr: "localhost:6060",
		LogLevel:  logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the voxelize HTTP server.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	go func() {
		logs.WithTag("addr", conf.PprofAddr).Info("starting pprof listener")
		if err := http.ListenAndServe(conf.PprofAddr, nil); err != nil {
			logs.Warn(errors.New("pprof listener stopped").Wrap(err))
		}
	}()

	srv := &http.Server{
		Addr:    conf.Addr,
		Handler: server.NewRouter(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logs.Warn(errors.New("shutting down server").Wrap(err))
		}
	}()

	logs.WithTag("addr", conf.Addr).
		WithTag("log_level", conf.LogLevel).
		Info("starting voxelize server")

	switch err := srv.ListenAndServe(); err {
	case nil, http.ErrServerClosed:
		logs.WithTag("addr", conf.Addr).Info("stopping voxelize server")
	default:
		logs.Fatal(errors.New("server stopped").Wrap(err))
	}
}
