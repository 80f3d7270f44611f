package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/release-version-api/internal/app"
	"github.com/stacklok/release-version-api/internal/config"
)

// ServerTestHelper manages the API server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	address    string
	baseURL    string
	httpClient *http.Client
	app        *app.ReleaseVersionApp
}

// NewServerTestHelper creates a new server test helper listening on a free local port
func NewServerTestHelper(ctx context.Context, configPath string) *ServerTestHelper {
	address := freeLocalAddress()
	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		address:    address,
		baseURL:    "http://" + address,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func freeLocalAddress() string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	address := listener.Addr().String()
	gomega.Expect(listener.Close()).To(gomega.Succeed())
	return address
}

// StartServer starts the API server programmatically
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	releaseApp, err := app.NewReleaseVersionApp(s.ctx,
		app.WithConfig(cfg),
		app.WithAddress(s.address),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	s.app = releaseApp

	go func() {
		if err := releaseApp.Start(); err != nil {
			// The test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()

	return nil
}

// StopServer gracefully stops the API server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits for the server to be ready to accept requests
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/readiness")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// GetMostRecent makes a GET request to /v1/most_recent
func (s *ServerTestHelper) GetMostRecent() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/v1/most_recent")
}

// GetSoftwareList makes a GET request to /v1/software with an optional format
func (s *ServerTestHelper) GetSoftwareList(format string) (*http.Response, error) {
	url := s.baseURL + "/v1/software"
	if format != "" {
		url += "?format=" + format
	}
	return s.httpClient.Get(url)
}

// GetSoftware makes a GET request to /v1/software/{name}
func (s *ServerTestHelper) GetSoftware(name string) (*http.Response, error) {
	return s.httpClient.Get(fmt.Sprintf("%s/v1/software/%s", s.baseURL, name))
}

// GetBaseURL returns the base URL of the server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}

// ReadMostRecent fetches /v1/most_recent and decodes a 200 response
func (s *ServerTestHelper) ReadMostRecent() map[string]*string {
	resp, err := s.GetMostRecent()
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK), string(body))

	var result map[string]*string
	gomega.Expect(json.Unmarshal(body, &result)).To(gomega.Succeed())
	return result
}

// WriteConfigYAML writes cfg as config.yaml into dir and returns its path
func WriteConfigYAML(dir string, cfg *config.Config) string {
	data, err := yaml.Marshal(cfg)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	configPath := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(configPath, data, 0600)).To(gomega.Succeed())
	return configPath
}

// UpstreamConfig returns a config with the built-in extractors disabled and the
// given custom extractors resolved against upstream
func UpstreamConfig(upstreamURL string, custom ...config.CustomExtractorConfig) *config.Config {
	for i := range custom {
		if custom[i].Kind == "stable-check" && custom[i].URL == "" {
			custom[i].URL = upstreamURL + StableCheckPath(custom[i].Name)
		}
	}

	return &config.Config{
		HTTP: config.HTTPConfig{Timeout: 5 * time.Second},
		Extractors: config.ExtractorsConfig{
			DisableDefaults: true,
			FeedBaseURL:     upstreamURL,
			Custom:          custom,
		},
	}
}
