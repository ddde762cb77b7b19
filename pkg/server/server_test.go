package server_test

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/hkumarmk/iso8583-switch/pkg/iso"
	"github.com/hkumarmk/iso8583-switch/pkg/mli"
	"github.com/hkumarmk/iso8583-switch/pkg/registry"
	"github.com/hkumarmk/iso8583-switch/pkg/server"
)

// echoProcessor parses the request against the sample spec and echoes it
// back unchanged, the way a network management 0800/0810 handshake would.
type echoProcessor struct {
	spec *iso.Spec
}

func (p *echoProcessor) Process(_ context.Context, _ *server.Server, request []byte) ([]byte, *iso.IsoMsg, error) {
	msg, err := p.spec.Parse(request)
	if err != nil {
		return nil, nil, iso.NewIsoError("parse failed", err)
	}

	resp, err := p.spec.Assemble(msg)
	if err != nil {
		return nil, nil, iso.NewIsoError("assemble failed", err)
	}

	return resp, msg, nil
}

func TestServer_EchoRoundTrip(t *testing.T) {
	spec := registry.MustGet("SampleSpec")

	msg := iso.NewMessage(spec)
	if err := msg.Set("message_type", "0800"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := msg.Set("stan", "000001"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	body, err := spec.Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)

	srv := server.New("127.0.0.1:0", mli.MLI2E, spec, &echoProcessor{spec: spec}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe(ctx)
	}()

	// ListenAndServe binds asynchronously; give it a moment before dialing.
	var conn net.Conn

	for i := 0; i < 100; i++ {
		if addr := srv.Addr(); addr != "" {
			conn, err = net.DialTimeout("tcp", addr, 50*time.Millisecond)
			if err == nil {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)
	}

	if conn == nil {
		t.Fatalf("failed to connect to server: %v", err)
	}
	defer conn.Close()

	prefix, err := mli.MLI2E.Create(len(body))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := conn.Write(append(prefix, body...)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	respPrefix := make([]byte, 2)
	if _, err := io.ReadFull(conn, respPrefix); err != nil {
		t.Fatalf("read response prefix failed: %v", err)
	}

	respLen := int(binary.BigEndian.Uint16(respPrefix))
	respBody := make([]byte, respLen)

	if _, err := io.ReadFull(conn, respBody); err != nil {
		t.Fatalf("read response body failed: %v", err)
	}

	respMsg, err := spec.Parse(respBody)
	if err != nil {
		t.Fatalf("Parse response failed: %v", err)
	}

	if v, _ := respMsg.Get("stan"); v != "000001" {
		t.Errorf("echoed stan = %q, want %q", v, "000001")
	}
}

// TestServer_OversizeFrameClosesConnection exercises scenario S6: a peer
// announcing a frame larger than the configured cap gets the connection
// closed rather than having the server buffer the claimed length.
func TestServer_OversizeFrameClosesConnection(t *testing.T) {
	spec := registry.MustGet("SampleSpec")
	logger := slog.New(slog.DiscardHandler)

	srv := server.New("127.0.0.1:0", mli.MLI2E, spec, &echoProcessor{spec: spec}, logger,
		server.WithMaxFrameBytes(16))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go srv.ListenAndServe(ctx)

	var conn net.Conn

	var err error

	for i := 0; i < 100; i++ {
		if addr := srv.Addr(); addr != "" {
			conn, err = net.DialTimeout("tcp", addr, 50*time.Millisecond)
			if err == nil {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)
	}

	if conn == nil {
		t.Fatalf("failed to connect to server: %v", err)
	}
	defer conn.Close()

	prefix, _ := mli.MLI2E.Create(1000)
	if _, err := conn.Write(prefix); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err != io.EOF {
		t.Fatalf("expected connection to be closed with EOF, got: %v", err)
	}
}
