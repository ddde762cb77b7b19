// Command isoswitchd runs a sample ISO8583 switch server: it binds a TCP
// listener, frames requests with a configurable MLI, and answers 0800
// network management echo requests with a matching 0810 response using the
// bundled sample spec. It exists to exercise pkg/server and pkg/registry
// end to end; a production switch would register its own Spec and
// MsgProcessor instead of the sample ones wired up here.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hkumarmk/iso8583-switch/pkg/iso"
	"github.com/hkumarmk/iso8583-switch/pkg/mli"
	"github.com/hkumarmk/iso8583-switch/pkg/registry"
	"github.com/hkumarmk/iso8583-switch/pkg/server"
)

var errUnknownMLI = errors.New("unrecognized MLI variant")

func main() {
	var (
		addr     = flag.String("addr", ":5001", "listen address")
		mliKind  = flag.String("mli", "2E", "MLI variant: 2E, 2I, 4E, or 4I")
		specName = flag.String("spec", "SampleSpec", "registered spec name to parse requests against")
		logLevel = flag.String("log-level", "info", "log level: debug | info | warn | error")
	)
	flag.Parse()

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	spec, err := registry.Get(*specName)
	if err != nil {
		logger.Error("unknown spec", slog.String("spec", *specName), slog.Any("error", err))
		os.Exit(1)
	}

	framer, err := resolveMLI(*mliKind)
	if err != nil {
		logger.Error("unknown mli variant", slog.String("mli", *mliKind), slog.Any("error", err))
		os.Exit(1)
	}

	srv := server.New(*addr, framer, spec, &echoProcessor{spec: spec, logger: logger}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server exited with error", slog.Any("error", err))
		}
	}

	cancel()

	if err := srv.Close(); err != nil {
		logger.Warn("error closing listener", slog.Any("error", err))
	}

	logger.Info("isoswitchd stopped")
}

func resolveMLI(kind string) (mli.MLI, error) {
	switch kind {
	case "2E":
		return mli.MLI2E, nil
	case "2I":
		return mli.MLI2I, nil
	case "4E":
		return mli.MLI4E, nil
	case "4I":
		return mli.MLI4I, nil
	default:
		return nil, errUnknownMLI
	}
}

// echoProcessor answers message_type "0800" network management requests
// with a "0810" response carrying the same STAN, and rejects anything else.
type echoProcessor struct {
	spec   *iso.Spec
	logger *slog.Logger
}

func (p *echoProcessor) Process(_ context.Context, _ *server.Server, request []byte) ([]byte, *iso.IsoMsg, error) {
	req, err := p.spec.Parse(request)
	if err != nil {
		return nil, nil, iso.NewIsoError("failed to parse request", err)
	}

	mt, ok := req.Get("message_type")
	if !ok || mt != "0800" {
		return nil, nil, iso.NewIsoError("unsupported message type: "+mt, nil)
	}

	resp := iso.NewMessage(p.spec)
	if err := resp.Set("message_type", "0810"); err != nil {
		return nil, nil, iso.NewIsoError("failed to set response message type", err)
	}

	if stan, ok := req.Get("stan"); ok {
		if err := resp.Set("stan", stan); err != nil {
			return nil, nil, iso.NewIsoError("failed to echo stan", err)
		}
	}

	respBytes, err := p.spec.Assemble(resp)
	if err != nil {
		return nil, nil, iso.NewIsoError("failed to assemble response", err)
	}

	return respBytes, resp, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level

	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
