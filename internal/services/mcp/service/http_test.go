package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aawilson/rputils/internal/services/roller"
)

func TestIsAllowedHost(t *testing.T) {
	allowed := parseAllowedHosts([]string{" Dice.Example ", ""})
	tests := []struct {
		host string
		want bool
	}{
		{host: "localhost:8080", want: true},
		{host: "127.0.0.1", want: true},
		{host: "[::1]:9000", want: true},
		{host: "dice.example:443", want: true},
		{host: "DICE.EXAMPLE", want: true},
		{host: "other.example", want: false},
		{host: "", want: false},
		{host: "[::1", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := isAllowedHost(tt.host, allowed); got != tt.want {
				t.Fatalf("isAllowedHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestHandlerRejectsUnknownHost(t *testing.T) {
	server, err := New(roller.NewService())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	handler := server.Handler(HTTPSettings{})

	req := httptest.NewRequest(http.MethodPost, "http://evil.example/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest(http.MethodPost, "http://localhost/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code == http.StatusForbidden {
		t.Fatal("loopback host should reach the MCP handler")
	}
}

func TestLoadHTTPSettings(t *testing.T) {
	t.Setenv("RPUTILS_MCP_ALLOWED_HOSTS", "a.example,b.example")

	settings, err := LoadHTTPSettings()
	if err != nil {
		t.Fatalf("LoadHTTPSettings returned error: %v", err)
	}
	if len(settings.AllowedHosts) != 2 || settings.AllowedHosts[1] != "b.example" {
		t.Fatalf("allowed hosts = %v", settings.AllowedHosts)
	}
}

func TestServeHTTPStopsOnCancel(t *testing.T) {
	server, err := New(roller.NewService())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ServeHTTP(ctx, "127.0.0.1:0", HTTPSettings{})
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ServeHTTP returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ServeHTTP did not stop after cancel")
	}
}

func TestServeHTTPListenError(t *testing.T) {
	listenErr := errors.New("address in use")
	listenTCP = func(string, string) (net.Listener, error) { return nil, listenErr }
	t.Cleanup(func() { listenTCP = net.Listen })

	server, err := New(roller.NewService())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := server.ServeHTTP(context.Background(), "127.0.0.1:0", HTTPSettings{}); !errors.Is(err, listenErr) {
		t.Fatalf("ServeHTTP error = %v, want %v", err, listenErr)
	}
}
