package unix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/ValentinKolb/kvprefs/rpc/transport"
)

// startServer starts an echo server that prefixes every response with the channel id
func startServer(t *testing.T, handler transport.ServerHandleFunc) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "kvprefs.sock")

	server := NewUnixDefaultServerTransport()
	server.RegisterHandler(handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(common.ServerConfig{
			TimeoutSecond: 5,
			Transport:     common.ServerTransportConfig{Endpoint: socket, WorkersPerConn: 4},
		})
	}()
	t.Cleanup(func() {
		server.Close()
		if err := <-errCh; err != nil {
			t.Errorf("Listen returned an error: %v", err)
		}
	})
	return socket
}

func connect(t *testing.T, socket string) transport.IRPCClientTransport {
	t.Helper()
	client := NewUnixClientTransport()
	config := common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{socket},
			RetryCount:             2,
			ConnectionsPerEndpoint: 2,
		},
	}

	// the server starts asynchronously
	deadline := time.Now().Add(5 * time.Second)
	for {
		err := client.Connect(config)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Failed to connect: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func echo(_ context.Context, channelID uint64, req []byte) []byte {
	return append([]byte(fmt.Sprintf("%d:", channelID)), req...)
}

func TestUnixRoundTrip(t *testing.T) {
	client := connect(t, startServer(t, echo))

	resp, err := client.Send(context.Background(), 7, []byte("hello"))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !bytes.Equal(resp, []byte("7:hello")) {
		t.Errorf("Expected 7:hello, got %s", resp)
	}

	// empty payloads are valid frames
	resp, err = client.Send(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp) != "1:" {
		t.Errorf("Expected 1:, got %s", resp)
	}
}

func TestUnixConcurrentRequests(t *testing.T) {
	client := connect(t, startServer(t, echo))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := []byte(fmt.Sprintf("request-%d", i))
			resp, err := client.Send(context.Background(), uint64(i), payload)
			if err != nil {
				t.Errorf("Send %d failed: %v", i, err)
				return
			}
			if expected := fmt.Sprintf("%d:request-%d", i, i); string(resp) != expected {
				t.Errorf("Response mismatch: expected %s, got %s", expected, resp)
			}
		}(i)
	}
	wg.Wait()
}

func TestUnixSendRespectsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	client := connect(t, startServer(t, func(ctx context.Context, _ uint64, req []byte) []byte {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return req
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Send(ctx, 1, []byte("slow")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestUnixSendAfterClose(t *testing.T) {
	client := connect(t, startServer(t, echo))
	client.Close()
	if _, err := client.Send(context.Background(), 1, []byte("x")); err == nil {
		t.Error("Expected an error after Close")
	}
}
