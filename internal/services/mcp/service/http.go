package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aawilson/rputils/internal/platform/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var listenTCP = net.Listen

const (
	// readHeaderTimeout limits how long the server waits for request headers.
	readHeaderTimeout = 5 * time.Second
	// shutdownTimeout is the maximum time to wait for graceful HTTP shutdown.
	shutdownTimeout = 5 * time.Second
)

// HTTPSettings holds env-parsed configuration for the MCP HTTP transport.
type HTTPSettings struct {
	AllowedHosts []string `env:"RPUTILS_MCP_ALLOWED_HOSTS" envSeparator:","`
}

// LoadHTTPSettings reads HTTPSettings from the environment.
func LoadHTTPSettings() (HTTPSettings, error) {
	var settings HTTPSettings
	if err := config.ParseEnv(&settings); err != nil {
		return HTTPSettings{}, err
	}
	return settings, nil
}

// Handler returns the streamable MCP endpoint. Requests whose Host header is
// neither loopback nor listed in settings are rejected.
func (s *Server) Handler(settings HTTPSettings) http.Handler {
	allowed := parseAllowedHosts(settings.AllowedHosts)
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAllowedHost(r.Host, allowed) {
			http.Error(w, "host not allowed", http.StatusForbidden)
			return
		}
		streamable.ServeHTTP(w, r)
	})
}

// ServeHTTP listens on addr and serves MCP until ctx ends.
func (s *Server) ServeHTTP(ctx context.Context, addr string, settings HTTPSettings) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	listener, err := listenTCP("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(settings),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	log.Printf("serving MCP over HTTP on %s", listener.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

func isAllowedHost(host string, allowed map[string]struct{}) bool {
	resolved, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolved) {
		return true
	}
	_, ok = allowed[strings.ToLower(resolved)]
	return ok
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		result[strings.ToLower(trimmed)] = struct{}{}
	}
	return result
}

// normalizeHost strips the port from a Host header.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}
	if strings.HasPrefix(host, "[") {
		if splitHost, _, err := net.SplitHostPort(host); err == nil {
			return splitHost, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), true
		}
		return "", false
	}
	if strings.Count(host, ":") > 1 {
		return host, true
	}
	if strings.Contains(host, ":") {
		splitHost, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return splitHost, true
	}
	return host, true
}
