package integration_test

import (
	"os/exec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("CLI Root Behavior", func() {
	Describe("Help and Version", func() {
		It("should print usage when run with no command", func() {
			command := exec.Command(pathToCLI)
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("Usage:"))
			Expect(session.Out).To(gbytes.Say("Available Commands:"))
		})

		It("should report its version", func() {
			command := exec.Command(pathToCLI, "--version")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("cronsched"))
		})

		It("should list every registered subcommand in help output", func() {
			command := exec.Command(pathToCLI, "--help")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			for _, name := range []string{"next", "explain", "validate", "diff", "import", "status", "run"} {
				Expect(session.Out).To(gbytes.Say(name))
			}
		})
	})

	Describe("Error Handling", func() {
		It("should reject an unknown command", func() {
			command := exec.Command(pathToCLI, "nonexistent")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("unknown command"))
		})

		It("should reject an unknown flag", func() {
			command := exec.Command(pathToCLI, "explain", "--invalid-flag")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("unknown flag"))
		})
	})
})
