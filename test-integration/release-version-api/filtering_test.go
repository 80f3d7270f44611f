package integration

import (
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/release-version-api/test-integration/release-version-api/helpers"
)

var _ = Describe("Release Filtering", Label("filtering"), func() {
	var (
		tempDir      string
		upstreamSrv  *httptest.Server
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("filtering-test-")
		upstreamSrv = healthyUpstream().
			WithReleaseFeed("AsamK", "signal-cli", "Version 2.0.0-preview", "Version 1.9.0 RC", "Version 1.8.0").
			Build()
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
			serverHelper = nil
		}
		upstreamSrv.Close()
		cleanupTempDir(tempDir)
	})

	It("should drop titles matching the default blocklist case-insensitively", func() {
		configFile := helpers.WriteConfigYAML(tempDir, helpers.UpstreamConfig(upstreamSrv.URL, upstreamExtractors()...))
		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)

		result := serverHelper.ReadMostRecent()

		// "2.0.0-preview" passes the keyword filter but is not a stable version
		Expect(result["signal-cli"]).To(HaveValue(Equal("1.8.0")))
	})

	It("should apply a configured blocklist", func() {
		cfg := helpers.UpstreamConfig(upstreamSrv.URL, upstreamExtractors()...)
		cfg.Filter.Blocklist = []string{"preview"}
		configFile := helpers.WriteConfigYAML(tempDir, cfg)

		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)

		result := serverHelper.ReadMostRecent()

		// "1.9.0 RC" is no longer blocked; the prefix rule keeps the whole remainder,
		// which does not parse, so 1.8.0 stays the maximum
		Expect(result["signal-cli"]).To(HaveValue(Equal("1.8.0")))
	})

	It("should only run extractors selected by include and exclude patterns", func() {
		cfg := helpers.UpstreamConfig(upstreamSrv.URL, upstreamExtractors()...)
		cfg.Extractors.Include = []string{"*"}
		cfg.Extractors.Exclude = []string{"signal-*", "hum*"}
		configFile := helpers.WriteConfigYAML(tempDir, cfg)

		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)

		result := serverHelper.ReadMostRecent()

		Expect(result).To(HaveLen(3))
		Expect(result).To(HaveKey("wordpress"))
		Expect(result).To(HaveKey("nextcloud"))
		Expect(result).To(HaveKey("froxlor"))
		Expect(result).NotTo(HaveKey("signal-cli"))
	})
})
