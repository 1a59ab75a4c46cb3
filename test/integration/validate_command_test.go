package integration_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("Validate Command", func() {
	Describe("Single Expression", func() {
		It("should accept a well-formed expression", func() {
			command := exec.Command(pathToCLI, "validate", "0 0 * * *")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("All valid"))
		})

		It("should reject a malformed expression", func() {
			command := exec.Command(pathToCLI, "validate", "99 0 * * *")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Out).To(gbytes.Say("ERROR"))
		})

		It("should warn without failing on a DOM/DOW conflict", func() {
			command := exec.Command(pathToCLI, "validate", "0 0 1 * 1")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("WARNING"))
		})
	})

	Describe("Registration File", func() {
		It("should validate every task in a YAML file", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "registrations.yaml")
			Expect(os.WriteFile(path, []byte(`
store: tasks.db
poll_interval: 30s
tasks:
  - name: backup
    cron: "0 2 * * *"
    command: /usr/bin/backup.sh
  - name: backup
    cron: "0 3 * * *"
    command: /usr/bin/backup2.sh
`), 0o644)).To(Succeed())

			command := exec.Command(pathToCLI, "validate", "--file", path)
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Out).To(gbytes.Say("duplicate"))
		})

		It("should emit JSON with a valid flag", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "registrations.yaml")
			Expect(os.WriteFile(path, []byte(`
store: tasks.db
tasks:
  - name: backup
    cron: "0 2 * * *"
    command: /usr/bin/backup.sh
`), 0o644)).To(Succeed())

			command := exec.Command(pathToCLI, "validate", "--file", path, "--json")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))

			var result map[string]interface{}
			Expect(json.Unmarshal(session.Out.Contents(), &result)).To(Succeed())
			Expect(result["valid"]).To(Equal(true))
		})
	})

	Describe("Error Handling", func() {
		It("should require either an expression or --file", func() {
			command := exec.Command(pathToCLI, "validate")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("must specify"))
		})
	})
})
