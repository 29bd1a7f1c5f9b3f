//go:build e2e

package e2e

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vlabs/vmmanager/internal/probe"
	"github.com/vlabs/vmmanager/internal/server"
)

var _ = Describe("HTTP API", func() {
	var (
		h      *harness
		remote *labRemote
		srv    *server.Server
	)

	BeforeEach(func() {
		h = newHarness()
		remote = newLabRemote("api-lab")
		prober := probe.New(probe.LocalExecutor{}, logr.Discard())
		srv = server.New(server.Config{Address: "127.0.0.1:0", EnableMetrics: true}, h.pipeline, prober, nil, logr.Discard())
	})

	post := func(form url.Values) (int, string) {
		req := httptest.NewRequest("POST", server.RouteTestLab, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := srv.App().Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode, string(body)
	}

	It("answers Success for a passing lab", func() {
		remote.commit(map[string]string{specPath: passingSpec("api")}, "first")

		status, body := post(url.Values{"lab_src_url": {remote.dir}})

		Expect(status).To(Equal(200))
		Expect(body).To(Equal("Success"))
	})

	It("answers Test lab failed for a lab without spec", func() {
		remote.commit(map[string]string{"README.md": "empty"}, "first")

		status, body := post(url.Values{"lab_src_url": {remote.dir}})

		Expect(status).To(Equal(500))
		Expect(body).To(Equal("Test lab failed"))
	})

	It("counts runs on /metrics", func() {
		remote.commit(map[string]string{specPath: passingSpec("api")}, "first")
		post(url.Values{"lab_src_url": {remote.dir}})

		resp, err := srv.App().Test(httptest.NewRequest("GET", server.RouteMetrics, nil), -1)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		Expect(string(body)).To(ContainSubstring("go_goroutines"))
	})

	It("serves the uptime probe", func() {
		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/1.0/info/"+probe.RunningTime, nil), -1)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(200))
	})
})
