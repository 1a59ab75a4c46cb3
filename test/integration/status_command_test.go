package integration_test

import (
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("Status Command", func() {
	It("should report no tasks against a freshly created store", func() {
		dbPath := filepath.Join(GinkgoT().TempDir(), "tasks.db")

		command := exec.Command(pathToCLI, "status", "--store", dbPath)
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("No persisted tasks"))
	})

	It("should require --store", func() {
		command := exec.Command(pathToCLI, "status")
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say("required"))
	})
})
