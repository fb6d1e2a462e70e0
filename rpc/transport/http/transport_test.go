package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := &httpServerTransport{}
	st.RegisterHandler(func(_ context.Context, channelID uint64, req []byte) []byte {
		return []byte(strings.ToUpper(string(req)))
	})
	server := httptest.NewServer(st.mux())
	t.Cleanup(server.Close)
	return server
}

func TestHTTPRoundTrip(t *testing.T) {
	server := newTestServer(t)

	client := NewHttpClientTransport()
	if err := client.Connect(common.ClientConfig{
		TimeoutSecond: 5,
		Transport:     common.ClientTransportConfig{Endpoints: []string{server.URL}, RetryCount: 1},
	}); err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	resp, err := client.Send(context.Background(), common.ChannelID(common.DefaultChannel), []byte("hello"))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp) != "HELLO" {
		t.Errorf("Expected HELLO, got %s", resp)
	}
}

func TestHTTPInvalidChannel(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/not-a-number", "application/octet-stream", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestHTTPMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)
	metrics.GetOrCreateCounter(`kvprefs_http_test_total`).Inc()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "kvprefs_http_test_total 1") {
		t.Errorf("Expected the counter in the metrics output, got:\n%s", body)
	}
}

func TestHTTPConnectRequiresScheme(t *testing.T) {
	err := NewHttpClientTransport().Connect(common.ClientConfig{
		Transport: common.ClientTransportConfig{Endpoints: []string{"localhost:8080"}},
	})
	if err == nil {
		t.Error("Expected an error for an endpoint without scheme")
	}
}
