package simulation

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/rs/xid"

	"github.com/sarchlab/csim/datarecording"
	"github.com/sarchlab/csim/mem/cache"
	"github.com/sarchlab/csim/mem/trace"
	"github.com/sarchlab/csim/monitoring"
)

// Builder can be used to build a simulation.
type Builder struct {
	cache        *cache.Cache
	recordPath   string
	dataRecorder datarecording.DataRecorder
	monitorOn    bool
	monitorPort  int
	accessLog    *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithCache sets the cache that the simulation drives.
func (b Builder) WithCache(c *cache.Cache) Builder {
	b.cache = c
	return b
}

// WithRecording records every access and a run summary into
// path + ".sqlite3".
func (b Builder) WithRecording(path string) Builder {
	b.recordPath = path
	return b
}

// WithDataRecorder records into an existing data recorder.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.dataRecorder = r
	return b
}

// WithMonitor turns on the monitoring server. A port of 0 picks a random
// port.
func (b Builder) WithMonitor(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port
	return b
}

// WithAccessLog writes one line per access to the logger.
func (b Builder) WithAccessLog(logger *log.Logger) Builder {
	b.accessLog = logger
	return b
}

func (b Builder) parametersMustBeValid() error {
	if b.cache == nil {
		return errors.New("simulation requires a cache")
	}

	if b.recordPath != "" && b.dataRecorder != nil {
		return errors.New("recording path and data recorder cannot both be set")
	}

	if b.recordPath != "" {
		filename := b.recordPath + ".sqlite3"
		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("recording file %s already exists", filename)
		}
	}

	return nil
}

// Build builds the simulation. The monitor starts first, so that a failure
// leaves neither hooks on the cache nor a recording file behind.
func (b Builder) Build() (*Simulation, error) {
	err := b.parametersMustBeValid()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:    xid.New().String(),
		cache: b.cache,
	}

	if b.monitorOn {
		err = b.startMonitor(s)
		if err != nil {
			return nil, err
		}
	}

	s.dataRecorder = b.dataRecorder
	if b.recordPath != "" {
		s.dataRecorder = datarecording.New(b.recordPath)
	}

	b.attachHooks(s)

	return s, nil
}

func (b Builder) startMonitor(s *Simulation) error {
	monitor := monitoring.NewMonitor().WithPortNumber(b.monitorPort)
	monitor.RegisterSimulation(s)

	url, err := monitor.StartServer()
	if err != nil {
		return err
	}

	s.monitor = monitor
	s.monitorURL = url

	return nil
}

func (b Builder) attachHooks(s *Simulation) {
	if s.dataRecorder != nil {
		s.cache.AcceptHook(trace.NewDBTracer(s.dataRecorder))
	}

	if b.accessLog != nil {
		s.cache.AcceptHook(trace.NewTracer(b.accessLog))
	}

	if s.monitor != nil {
		s.cache.AcceptHook(s.monitor.MetricsHook())
	}
}
