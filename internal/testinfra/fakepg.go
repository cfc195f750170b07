package testinfra

import (
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgproto3"
)

// StartDroppingPostgres starts a fake PostgreSQL server that accepts any
// login and closes the connection when the first query arrives. It returns
// a dsn for it. The listener is closed when the test ends.
func StartDroppingPostgres(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveThenDrop(conn)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return fmt.Sprintf("postgres://127.0.0.1:%d/blobs?sslmode=disable", addr.Port)
}

func serveThenDrop(conn net.Conn) {
	defer conn.Close()
	backend := pgproto3.NewBackend(conn, conn)

startup:
	for {
		msg, err := backend.ReceiveStartupMessage()
		if err != nil {
			return
		}
		switch msg.(type) {
		case *pgproto3.SSLRequest, *pgproto3.GSSEncRequest:
			// Decline encryption.
			if _, err := conn.Write([]byte{'N'}); err != nil {
				return
			}
		case *pgproto3.StartupMessage:
			break startup
		default:
			return
		}
	}

	backend.Send(&pgproto3.AuthenticationOk{})
	backend.Send(&pgproto3.ParameterStatus{Name: "server_version", Value: "17.0"})
	backend.Send(&pgproto3.ReadyForQuery{TxStatus: 'I'})
	if err := backend.Flush(); err != nil {
		return
	}

	// Drop on the first statement.
	_, _ = backend.Receive()
}
