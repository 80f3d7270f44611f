package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/release-version-api/internal/config"
	"github.com/stacklok/release-version-api/test-integration/release-version-api/helpers"
)

// upstreamExtractors mirrors a subset of the built-in extractors against the mock upstream
func upstreamExtractors() []config.CustomExtractorConfig {
	return []config.CustomExtractorConfig{
		{Name: "wordpress", Kind: "stable-check"},
		{Name: "signal-cli", Kind: "github-releases", Owner: "AsamK", Repo: "signal-cli", Rule: "prefix", Prefix: "Version "},
		{Name: "nextcloud", Kind: "github-releases", Owner: "nextcloud", Repo: "server", Rule: "v-prefix-semver"},
		{Name: "froxlor", Kind: "github-releases", Owner: "Froxlor", Repo: "Froxlor", Rule: "prefix-first-token", Prefix: "Froxlor "},
		{Name: "humhub", Kind: "github-releases", Owner: "humhub", Repo: "humhub", Rule: "whole-title"},
	}
}

func healthyUpstream() *helpers.MockUpstreamBuilder {
	return helpers.NewMockUpstreamBuilder().
		WithStableCheck("wordpress", map[string]string{"6.1": "outdated", "6.2": "latest", "6.0": "insecure"}).
		WithReleaseFeed("AsamK", "signal-cli", "Version 1.2.3", "Version 1.3.0-beta", "Version 1.2.9").
		WithReleaseFeed("nextcloud", "server", "v27.1.0rc1", "v27.0.1", "v26.0.4", "v25.0.10").
		WithReleaseFeed("Froxlor", "Froxlor", "Froxlor 2.1.4 (security release)", "Froxlor 2.1.3").
		WithReleaseFeed("humhub", "humhub", "Release notes", "Draft")
}

var _ = Describe("Most Recent Versions", Label("most-recent"), func() {
	var (
		tempDir      string
		upstream     *helpers.MockUpstreamBuilder
		upstreamSrv  *httptest.Server
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("most-recent-test-")
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
			serverHelper = nil
		}
		if upstreamSrv != nil {
			upstreamSrv.Close()
		}
		cleanupTempDir(tempDir)
	})

	startServer := func(cfg *config.Config) {
		configFile := helpers.WriteConfigYAML(tempDir, cfg)
		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	}

	Context("with every upstream healthy", func() {
		BeforeEach(func() {
			upstream = healthyUpstream()
			upstreamSrv = upstream.Build()
			startServer(helpers.UpstreamConfig(upstreamSrv.URL, upstreamExtractors()...))
		})

		It("should report the latest stable version of every software", func() {
			result := serverHelper.ReadMostRecent()

			Expect(result).To(HaveLen(5))
			Expect(result["wordpress"]).To(HaveValue(Equal("6.2")))
			Expect(result["signal-cli"]).To(HaveValue(Equal("1.2.9")))
			Expect(result["nextcloud"]).To(HaveValue(Equal("27.0.1")))
			Expect(result["froxlor"]).To(HaveValue(Equal("2.1.4")))
		})

		It("should report software without a parseable release as null", func() {
			result := serverHelper.ReadMostRecent()

			Expect(result).To(HaveKey("humhub"))
			Expect(result["humhub"]).To(BeNil())
		})

		It("should return identical results on repeated runs", func() {
			first := serverHelper.ReadMostRecent()
			requestsAfterFirst := upstream.Requests()

			second := serverHelper.ReadMostRecent()

			Expect(second).To(Equal(first))
			Expect(upstream.Requests()).To(Equal(2*requestsAfterFirst), "every call should fetch fresh data")
		})

		It("should serve a single software", func() {
			resp, err := serverHelper.GetSoftware("nextcloud")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(MatchJSON(`{"software_name":"nextcloud","version":"27.0.1"}`))
		})

		It("should list software names as a discovery document", func() {
			resp, err := serverHelper.GetSoftwareList("discovery")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var doc struct {
				Data []map[string]string `json:"data"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&doc)).To(Succeed())
			Expect(doc.Data).To(HaveLen(5))
			Expect(doc.Data[0]).To(HaveKeyWithValue("{#SOFTWARENAME}", "froxlor"))
		})
	})

	Context("with a failing upstream", func() {
		BeforeEach(func() {
			upstream = healthyUpstream().
				WithFailure(helpers.FeedPath("nextcloud", "server"), http.StatusBadGateway)
			upstreamSrv = upstream.Build()
		})

		It("should fail the request under the fail policy", func() {
			startServer(helpers.UpstreamConfig(upstreamSrv.URL, upstreamExtractors()...))

			resp, err := serverHelper.GetMostRecent()
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()

			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(MatchJSON(`{"error":"Failed to determine the most recent versions"}`))
		})

		It("should still serve an unaffected software under the fail policy", func() {
			startServer(helpers.UpstreamConfig(upstreamSrv.URL, upstreamExtractors()...))

			resp, err := serverHelper.GetSoftware("wordpress")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(MatchJSON(`{"software_name":"wordpress","version":"6.2"}`))
		})

		It("should report the failing software as null under the absent policy", func() {
			cfg := helpers.UpstreamConfig(upstreamSrv.URL, upstreamExtractors()...)
			cfg.Aggregation.FailurePolicy = "absent"
			startServer(cfg)

			result := serverHelper.ReadMostRecent()

			Expect(result).To(HaveKey("nextcloud"))
			Expect(result["nextcloud"]).To(BeNil())
			Expect(result["wordpress"]).To(HaveValue(Equal("6.2")))
		})
	})

	Context("with a malformed feed", func() {
		BeforeEach(func() {
			upstream = helpers.NewMockUpstreamBuilder().
				WithStableCheck("wordpress", map[string]string{"6.2": "latest"})
			upstream.WithFailure(helpers.FeedPath("nextcloud", "server"), http.StatusOK)
			upstreamSrv = upstream.Build()
		})

		It("should treat an unparsable feed as a fetch error", func() {
			cfg := helpers.UpstreamConfig(upstreamSrv.URL,
				config.CustomExtractorConfig{Name: "wordpress", Kind: "stable-check"},
				config.CustomExtractorConfig{
					Name: "nextcloud", Kind: "github-releases", Owner: "nextcloud", Repo: "server", Rule: "v-prefix-semver",
				},
			)
			startServer(cfg)

			resp, err := serverHelper.GetMostRecent()
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})
})
