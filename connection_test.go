// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

// scpiServer is a single-shot loopback SCPI responder. It accepts one
// connection, answers queries from the replies table and records every
// received line.
type scpiServer struct {
	listener net.Listener
	replies  map[string]string
	received chan string
}

func newSCPIServer(t *testing.T, replies map[string]string) *scpiServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s := &scpiServer{
		listener: listener,
		replies:  replies,
		received: make(chan string, 16),
	}
	go s.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return s
}

func (s *scpiServer) serve() {
	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		s.received <- cmd
		if reply, ok := s.replies[cmd]; ok {
			if _, err := conn.Write([]byte(reply + "\r\n")); err != nil {
				return
			}
		}
	}
}

func (s *scpiServer) addr() string {
	return s.listener.Addr().String()
}

// TestConnAsk tests a query round trip over a real TCP socket
func TestConnAsk(t *testing.T) {
	server := newSCPIServer(t, map[string]string{
		"*IDN?": "KEITHLEY INSTRUMENTS INC.,MODEL 2182A,1234567,C02",
	})

	conn := NewConn(server.addr())
	defer conn.Close()

	reply, err := conn.Ask(context.Background(), "*IDN?")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	want := "KEITHLEY INSTRUMENTS INC.,MODEL 2182A,1234567,C02"
	if reply != want {
		t.Errorf("Ask = %q, want %q", reply, want)
	}
}

// TestConnWrite tests that bare writes arrive terminated
func TestConnWrite(t *testing.T) {
	server := newSCPIServer(t, nil)

	conn := NewConn(server.addr())
	defer conn.Close()

	if err := conn.Write(context.Background(), ":ABOR"); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	select {
	case got := <-server.received:
		if got != ":ABOR" {
			t.Errorf("server received %q, want \":ABOR\"", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the command")
	}
}

// TestConnSerializedRoundTrips tests several round trips on one socket
func TestConnSerializedRoundTrips(t *testing.T) {
	server := newSCPIServer(t, map[string]string{
		":READ?":      "-1.234E-05",
		":SAMP:COUN?": "10",
	})

	conn := NewConn(server.addr())
	defer conn.Close()
	ctx := context.Background()

	if err := conn.Write(ctx, ":TRIG:SOUR IMM"); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if reply, err := conn.Ask(ctx, ":READ?"); err != nil || reply != "-1.234E-05" {
		t.Errorf("Ask(:READ?) = %q, %v", reply, err)
	}
	if reply, err := conn.Ask(ctx, ":SAMP:COUN?"); err != nil || reply != "10" {
		t.Errorf("Ask(:SAMP:COUN?) = %q, %v", reply, err)
	}
}

// TestConnDialFailure tests that dial errors surface as TransportError
func TestConnDialFailure(t *testing.T) {
	// Grab a free port and close it again so the dial is refused
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	conn := NewConn(addr)
	conn.ConnectTimeout = 2 * time.Second

	_, err = conn.Ask(context.Background(), "*IDN?")
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Ask error = %v, want TransportError", err)
	}
	if terr.Op != "dial" {
		t.Errorf("TransportError.Op = %q, want \"dial\"", terr.Op)
	}
}

// TestConnDisconnectReusable tests that Disconnect keeps the Conn usable
func TestConnDisconnectReusable(t *testing.T) {
	server := newSCPIServer(t, map[string]string{":SAMP:COUN?": "10"})

	conn := NewConn(server.addr())
	conn.Timeout = 500 * time.Millisecond
	defer conn.Close()
	ctx := context.Background()

	if _, err := conn.Ask(ctx, ":SAMP:COUN?"); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if err := conn.Disconnect(); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}

	// The single-shot server no longer answers; the re-dial must be
	// attempted and the query must time out on the mute socket
	_, err := conn.Ask(ctx, ":SAMP:COUN?")
	if err == nil {
		t.Fatal("Ask after Disconnect succeeded, want timeout against mute server")
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Errorf("Ask error = %v, want TransportError", err)
	}
}

// TestConnClosed tests that a closed Conn rejects further operations
func TestConnClosed(t *testing.T) {
	conn := NewConn("127.0.0.1:1")
	if err := conn.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	// Safe to call more than once
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}

	err := conn.Write(context.Background(), ":ABOR")
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Write after Close error = %v, want TransportError", err)
	}
	if !errors.Is(err, net.ErrClosed) {
		t.Errorf("Write after Close error = %v, want net.ErrClosed in chain", err)
	}
}

// TestConnAddress tests default-port handling
func TestConnAddress(t *testing.T) {
	tests := []struct {
		name   string
		target string
		port   int
		want   string
	}{
		{name: "bare host", target: "10.0.0.5", port: 5025, want: "10.0.0.5:5025"},
		{name: "custom port", target: "10.0.0.5", port: 9000, want: "10.0.0.5:9000"},
		{name: "explicit port wins", target: "10.0.0.5:5555", port: 5025, want: "10.0.0.5:5555"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := NewConn(tt.target)
			conn.Port = tt.port
			if got := conn.address(); got != tt.want {
				t.Errorf("address() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConnContextCancellation tests that a cancelled context aborts the
// round trip
func TestConnContextCancellation(t *testing.T) {
	// Server that accepts but never replies
	server := newSCPIServer(t, nil)

	conn := NewConn(server.addr())
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := conn.Ask(ctx, ":READ?")
	if err == nil {
		t.Fatal("Ask succeeded against a mute server, want deadline error")
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Errorf("Ask error = %v, want TransportError", err)
	}
}
