package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
	"gopkg.in/yaml.v3"
)

var _ = Describe("Import Command", func() {
	It("should convert a crontab into a registration file, skipping unsupported lines", func() {
		dir := GinkgoT().TempDir()
		crontabPath := filepath.Join(dir, "crontab")
		Expect(os.WriteFile(crontabPath, []byte(
			"*/15 * * * * /usr/bin/backup.sh\n@reboot /usr/bin/startup.sh\n",
		), 0o644)).To(Succeed())

		command := exec.Command(pathToCLI, "import", crontabPath)
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Err).To(gbytes.Say("skipped"))

		var cfg struct {
			Tasks []struct {
				Command string `yaml:"command"`
			} `yaml:"tasks"`
		}
		Expect(yaml.Unmarshal(session.Out.Contents(), &cfg)).To(Succeed())
		Expect(cfg.Tasks).To(HaveLen(1))
		Expect(cfg.Tasks[0].Command).To(Equal("/usr/bin/backup.sh"))
	})

	It("should write the registration file to --output when given", func() {
		dir := GinkgoT().TempDir()
		crontabPath := filepath.Join(dir, "crontab")
		outPath := filepath.Join(dir, "out.yaml")
		Expect(os.WriteFile(crontabPath, []byte("0 0 * * * /usr/bin/daily.sh\n"), 0o644)).To(Succeed())

		command := exec.Command(pathToCLI, "import", crontabPath, "--output", outPath)
		session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())

		Eventually(session).Should(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("wrote 1 task"))
		Expect(outPath).To(BeAnExistingFile())
	})
})
