package integration_test

import (
	"encoding/json"
	"os/exec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("Next Command", func() {
	It("should show the requested number of runs", func() {
		command := exec.Command(pathToCLI, "next", "0 9 * * 1-5", "-c", "5")
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("Next 5 runs"))
	})

	It("should accept an explicit --from timestamp", func() {
		command := exec.Command(pathToCLI, "next", "@daily", "--from", "2026-01-01T00:00:00Z", "-c", "1")
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("2026-01-02"))
	})

	It("should emit a machine-readable run list as JSON", func() {
		command := exec.Command(pathToCLI, "next", "0 9 * * 1-5", "--json", "-c", "3")
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))

		var result struct {
			Expression string `json:"expression"`
			NextRuns   []struct {
				Timestamp string `json:"timestamp"`
			} `json:"next_runs"`
		}
		Expect(json.Unmarshal(session.Out.Contents(), &result)).To(Succeed())
		Expect(result.Expression).To(Equal("0 9 * * 1-5"))
		Expect(result.NextRuns).To(HaveLen(3))
	})

	It("should reject a count outside 1-100", func() {
		command := exec.Command(pathToCLI, "next", "@hourly", "-c", "0")
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say("count must be between"))
	})

	It("should reject a malformed --from timestamp", func() {
		command := exec.Command(pathToCLI, "next", "@hourly", "--from", "not-a-timestamp")
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say("invalid --from"))
	})
})
