package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("Diff Command", func() {
	var dir, configPath, storePath string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		configPath = filepath.Join(dir, "registrations.yaml")
		storePath = filepath.Join(dir, "tasks.db")
		Expect(os.WriteFile(configPath, []byte(`
store: tasks.db
poll_interval: 30s
tasks:
  - name: backup
    cron: "0 2 * * *"
    command: /usr/bin/backup.sh
`), 0o644)).To(Succeed())
	})

	It("should show every task as added against an empty store", func() {
		command := exec.Command(pathToCLI, "diff", "--config", configPath, "--store", storePath)
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("backup"))
	})

	It("should emit JSON when --format json is given", func() {
		command := exec.Command(pathToCLI, "diff", "--config", configPath, "--store", storePath, "--format", "json")
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say(`"added"`))
	})

	It("should require both --config and --store", func() {
		command := exec.Command(pathToCLI, "diff", "--config", configPath)
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say("required"))
	})
})
