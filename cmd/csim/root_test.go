package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func execute(stdin string, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

var _ = Describe("csim", func() {
	It("should print the report", func() {
		out, _, err := execute("l 0x00 4\nl 0x10 4\nl 0x20 4\n",
			"1", "2", "16", "write-allocate", "write-back", "lru")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(
			"Total loads: 3\n" +
				"Total stores: 0\n" +
				"Load hits: 0\n" +
				"Load misses: 3\n" +
				"Store hits: 0\n" +
				"Store misses: 0\n" +
				"Total cycles: 1200\n"))
	})

	It("should print usage on a wrong argument count", func() {
		_, _, err := execute("", "1", "2", "16")

		Expect(err).To(MatchError(usage))
	})

	It("should stop at an invalid operation", func() {
		out, _, err := execute("l 0x00 4\nx 0x10 4\n",
			"1", "1", "4", "write-allocate", "write-back", "lru")

		Expect(err).To(MatchError("Invalid operation: x (line 2)"))
		Expect(out).To(BeEmpty())
	})

	It("should log accesses to stderr", func() {
		_, errOut, err := execute("s 0x04 4\n",
			"1", "1", "4", "no-write-allocate", "write-through", "fifo",
			"--log-accesses")

		Expect(err).NotTo(HaveOccurred())
		Expect(errOut).To(Equal(
			"1, Cache, store, 0x00000004, set 0, way -1, miss, 100 cycles\n"))
	})

	Context("with files", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should read the trace from a file", func() {
			tracePath := filepath.Join(dir, "a.trace")
			Expect(os.WriteFile(tracePath,
				[]byte("s 0x00 4\nl 0x00 4\n"), 0o600)).To(Succeed())

			out, _, err := execute("",
				"1", "1", "4", "write-allocate", "write-through", "lru",
				"--trace", tracePath)

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Store misses: 1\n"))
			Expect(out).To(ContainSubstring("Load hits: 1\n"))
			Expect(out).To(ContainSubstring("Total cycles: 201\n"))
		})

		It("should take flag defaults from an env file", func() {
			tracePath := filepath.Join(dir, "b.trace")
			Expect(os.WriteFile(tracePath,
				[]byte("l 0x00 4\n"), 0o600)).To(Succeed())

			envPath := filepath.Join(dir, "csim.env")
			Expect(os.WriteFile(envPath,
				[]byte(envTrace+"="+tracePath+"\n"), 0o600)).To(Succeed())
			DeferCleanup(os.Unsetenv, envTrace)

			out, _, err := execute("l 0x00 4\nl 0x00 4\n",
				"1", "1", "4", "write-allocate", "write-back", "lru",
				"--env-file", envPath)

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Total loads: 1\n"))
		})

		It("should record a run and show it", func() {
			recordPath := filepath.Join(dir, "run")

			_, _, err := execute("l 0x00 4\ns 0x00 4\n",
				"2", "1", "4", "write-allocate", "write-back", "fifo",
				"--record", recordPath)
			Expect(err).NotTo(HaveOccurred())

			out, _, err := execute("", "show", recordPath+".sqlite3")

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(
				"2 sets, 1 ways, 4 bytes, write-allocate, write-back, fifo\n"))
			Expect(out).To(ContainSubstring("Store hits: 1\n"))
			Expect(out).To(ContainSubstring("Total cycles: 101\n"))
		})
	})
})
