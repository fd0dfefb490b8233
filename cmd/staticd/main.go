package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"

	"github.com/rs/zerolog"

	"dqx0.com/go/staticd/httpd"
	"dqx0.com/go/staticd/internal/config"
	"dqx0.com/go/staticd/internal/obs"
)

func main() {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	os.Exit(run(os.Args[1:], zl))
}

func run(args []string, zl zerolog.Logger) int {
	path := config.DefaultPath
	if len(args) > 0 {
		path = args[0]
	} else {
		zl.Warn().Msgf("no config file given, using %s", path)
	}

	st, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			zl.Error().Msgf("cannot load config file; is the path %q correct?", path)
		} else {
			zl.Error().Err(err).Msg("invalid configuration")
		}
		return 1
	}
	if lvl, ok := obs.ParseLevel(st.LogLevel); ok {
		zl = zl.Level(obs.ZerologLevel(lvl))
	} else {
		zl = zl.Level(zerolog.InfoLevel)
	}
	if st.ThreadLimit > 0 {
		zl.Info().Int("thread_limit", st.ThreadLimit).Msg("limiting scheduler threads")
		runtime.GOMAXPROCS(st.ThreadLimit)
	}

	meter := &obs.Tally{}
	srv := &httpd.Server{
		Settings: st,
		Logger:   obs.ZeroLogger{L: zl},
		Meter:    meter,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	zl.Info().Int("port", st.Port).Str("root", st.Root).Msg("server starting")
	err = srv.ListenAndServe()
	logTotals(zl, meter)
	if err != nil && !errors.Is(err, httpd.ErrServerClosed) {
		zl.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}

func logTotals(zl zerolog.Logger, m *obs.Tally) {
	snap := m.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ev := zl.Info()
	for _, k := range keys {
		ev = ev.Float64(k, snap[k])
	}
	ev.Msg("totals")
}
