package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/csim/mem/cache"
	"github.com/sarchlab/csim/mem/trace"
	"github.com/sarchlab/csim/simulation"
)

// Environment variables that provide flag defaults.
const (
	envTrace       = "CSIM_TRACE"
	envRecord      = "CSIM_RECORD"
	envMonitorPort = "CSIM_MONITOR_PORT"
)

type options struct {
	tracePath   string
	recordPath  string
	logAccesses bool
	monitor     bool
	monitorPort int
	openBrowser bool
	envFile     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use: "csim <sets> <blocks> <bytes> " +
			"<write-allocate|no-write-allocate> " +
			"<write-through|write-back> <lru|fifo>",
		Short: "Simulate a set-associative data cache over a memory trace",
		Long: `csim replays a memory trace through a configurable set-associative
data cache and reports hit, miss and cycle counts.

Each trace line is "<l|s> <hex-address> <size>". The trace is read from
stdin unless --trace is given.

Examples:
  # 256 sets, 4 ways, 16-byte blocks, write-allocate, write-back, LRU
  csim 256 4 16 write-allocate write-back lru < gcc.trace

  # Record every access into run.sqlite3
  csim 1 1 4 write-allocate write-through fifo --trace gcc.trace --record run`,
		Args:          checkArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnv(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.tracePath, "trace", "",
		"read the trace from a file instead of stdin")
	cmd.Flags().StringVar(&opts.recordPath, "record", "",
		"record accesses and the run summary into PATH.sqlite3")
	cmd.Flags().BoolVar(&opts.logAccesses, "log-accesses", false,
		"log every access to stderr")
	cmd.Flags().BoolVar(&opts.monitor, "monitor", false,
		"serve live statistics over HTTP")
	cmd.Flags().IntVar(&opts.monitorPort, "monitor-port", 0,
		"port of the monitoring server, random if 0")
	cmd.Flags().BoolVar(&opts.openBrowser, "open-browser", false,
		"open the monitoring page in a browser")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "",
		"load flag defaults from a dotenv file")

	cmd.AddCommand(newShowCmd())

	return cmd
}

// loadEnv fills the flags that were not given on the command line from the
// environment.
func loadEnv(cmd *cobra.Command, opts *options) error {
	if opts.envFile != "" {
		err := godotenv.Load(opts.envFile)
		if err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	flags := cmd.Flags()

	if v, ok := os.LookupEnv(envTrace); ok && !flags.Changed("trace") {
		opts.tracePath = v
	}

	if v, ok := os.LookupEnv(envRecord); ok && !flags.Changed("record") {
		opts.recordPath = v
	}

	if v, ok := os.LookupEnv(envMonitorPort); ok &&
		!flags.Changed("monitor-port") {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envMonitorPort, err)
		}

		opts.monitorPort = port
	}

	return nil
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}

	c, err := cache.MakeBuilder().WithConfig(config).Build()
	if err != nil {
		return err
	}

	input, closeInput, err := openTrace(cmd, opts.tracePath)
	if err != nil {
		return err
	}
	defer closeInput()

	builder := simulation.MakeBuilder().WithCache(c)

	if opts.recordPath != "" {
		builder = builder.WithRecording(opts.recordPath)
	}

	if opts.logAccesses {
		builder = builder.WithAccessLog(log.New(cmd.ErrOrStderr(), "", 0))
	}

	if opts.monitor || opts.openBrowser {
		builder = builder.WithMonitor(opts.monitorPort)
	}

	s, err := builder.Build()
	if err != nil {
		return err
	}

	if opts.openBrowser {
		err = browser.OpenURL(s.MonitorURL())
		if err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	stats, runErr := s.Run(input)
	termErr := s.Terminate()

	if runErr != nil {
		return invalidOperation(runErr)
	}

	if termErr != nil {
		return termErr
	}

	return simulation.WriteReport(cmd.OutOrStdout(), stats)
}

// openTrace reads the trace file, or stdin if path is empty. Only files
// have a known size.
func openTrace(
	cmd *cobra.Command,
	path string,
) (*trace.Reader, func(), error) {
	if path == "" {
		return trace.NewReader(cmd.InOrStdin()), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	reader := trace.NewReader(f).WithSize(uint64(info.Size()))

	return reader, func() { f.Close() }, nil
}

// invalidOperation reports unknown trace operations the same way for every
// source of the error.
func invalidOperation(err error) error {
	var parseErr *trace.ParseError
	if errors.Is(err, cache.ErrUnknownOp) && errors.As(err, &parseErr) {
		return fmt.Errorf("Invalid operation: %s (line %d)",
			firstField(parseErr.Text), parseErr.Line)
	}

	return err
}

func firstField(text string) string {
	for i, r := range text {
		if r == ' ' || r == '\t' {
			return text[:i]
		}
	}

	return text
}
