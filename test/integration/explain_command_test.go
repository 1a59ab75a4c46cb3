package integration_test

import (
	"encoding/json"
	"os/exec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("Explain Command", func() {
	Describe("Standard Cron Expressions", func() {
		It("should explain every minute pattern", func() {
			command := exec.Command(pathToCLI, "explain", "* * * * *")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("[Ee]very minute"))
		})

		It("should explain minute step intervals", func() {
			command := exec.Command(pathToCLI, "explain", "*/15 * * * *")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("15 minutes"))
		})

		It("should explain weekday patterns", func() {
			command := exec.Command(pathToCLI, "explain", "0 9 * * 1-5")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("09:00"))
		})
	})

	Describe("Cron Aliases", func() {
		It("should explain @daily", func() {
			command := exec.Command(pathToCLI, "explain", "@daily")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("midnight"))
		})
	})

	Describe("JSON Output", func() {
		It("should emit expression, strict, and description fields", func() {
			command := exec.Command(pathToCLI, "explain", "0 0 * * *", "--json")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))

			var result map[string]string
			Expect(json.Unmarshal(session.Out.Contents(), &result)).To(Succeed())
			Expect(result["expression"]).To(Equal("0 0 * * *"))
			Expect(result["description"]).To(ContainSubstring("midnight"))
		})
	})

	Describe("Error Handling", func() {
		It("should reject expressions with the wrong field count", func() {
			command := exec.Command(pathToCLI, "explain", "0 0 *")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("failed to parse"))
		})

		It("should reject out of range values", func() {
			command := exec.Command(pathToCLI, "explain", "60 0 * * *")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("failed to parse"))
		})

		It("should require an argument", func() {
			command := exec.Command(pathToCLI, "explain")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
		})
	})
})
