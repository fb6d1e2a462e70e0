package tcp

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/kvprefs/rpc/common"
)

// freeAddr returns a local address that was free a moment ago
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func TestTCPRoundTrip(t *testing.T) {
	addr := freeAddr(t)

	server := NewTCPServerTransport()
	server.RegisterHandler(func(_ context.Context, channelID uint64, req []byte) []byte {
		return append(req, byte(channelID))
	})

	serverConfig := common.ServerConfig{
		TimeoutSecond: 5,
		Transport: common.ServerTransportConfig{
			Endpoint: addr,
			TCPConf:  common.TCPConf{TCPNoDelay: true, TCPKeepAliveSec: 30},
		},
	}
	errCh := make(chan error, 1)
	go func() { errCh <- server.Listen(serverConfig) }()
	defer func() {
		server.Close()
		if err := <-errCh; err != nil {
			t.Errorf("Listen returned an error: %v", err)
		}
	}()

	client := NewTCPClientTransport()
	clientConfig := common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:  []string{addr},
			RetryCount: 3,
			TCPConf:    common.TCPConf{TCPNoDelay: true},
			SocketConf: common.SocketConf{WriteBufferSize: 64 * 1024, ReadBufferSize: 64 * 1024},
		},
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		err := client.Connect(clientConfig)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Failed to connect: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	defer client.Close()

	resp, err := client.Send(context.Background(), 9, []byte("abc"))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !bytes.Equal(resp, []byte{'a', 'b', 'c', 9}) {
		t.Errorf("Unexpected response %v", resp)
	}
}

func TestTCPConnectNoEndpoints(t *testing.T) {
	if err := NewTCPClientTransport().Connect(common.ClientConfig{}); err == nil {
		t.Error("Expected an error without endpoints")
	}
}
