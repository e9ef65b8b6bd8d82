// Package simulation replays memory traces through a cache and collects the
// run statistics.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sarchlab/csim/datarecording"
	"github.com/sarchlab/csim/mem/cache"
	"github.com/sarchlab/csim/mem/trace"
	"github.com/sarchlab/csim/monitoring"
)

// SummaryTableName is the table that holds one row per finished run.
const SummaryTableName = "run_summary"

// A RecordSource provides trace records one at a time. It returns io.EOF
// when there are no more records.
type RecordSource interface {
	Read() (trace.Record, error)
}

// A SizedSource is a RecordSource that knows how many bytes of its input it
// has consumed. Run reports progress in bytes for such sources.
type SizedSource interface {
	RecordSource

	Offset() uint64

	// Size returns the length of the input, or 0 if it is unknown.
	Size() uint64
}

// A Simulation drives a cache with a stream of accesses.
type Simulation struct {
	id    string
	cache *cache.Cache

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	monitorURL   string
	progress     *monitoring.ProgressBar

	lock  sync.RWMutex
	stats cache.Statistics
}

// ID returns the unique ID of the simulation run.
func (s *Simulation) ID() string {
	return s.id
}

// Cache returns the simulated cache.
func (s *Simulation) Cache() *cache.Cache {
	return s.cache
}

// CacheConfig returns the configuration of the simulated cache.
func (s *Simulation) CacheConfig() cache.Config {
	return s.cache.Config()
}

// MonitorURL returns the address of the monitoring server, or an empty
// string if monitoring is off.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Statistics returns a snapshot of the statistics collected so far.
func (s *Simulation) Statistics() cache.Statistics {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.stats
}

// Step performs one access and returns its cycle cost.
func (s *Simulation) Step(op cache.Op, addr uint32) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	cycles, err := s.cache.Access(op, addr, &s.stats)
	if err != nil {
		return 0, err
	}

	s.stats.AddCycles(cycles)

	return cycles, nil
}

// Run reads records from the source until it is exhausted and returns the
// final statistics. It stops at the first bad record.
func (s *Simulation) Run(source RecordSource) (cache.Statistics, error) {
	s.startProgress(source)

	for {
		record, err := source.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return s.Statistics(), err
		}

		_, err = s.Step(record.Op, record.Address)
		if err != nil {
			return s.Statistics(), fmt.Errorf("line %d: %w", record.Line, err)
		}

		s.updateProgress(source)
	}

	if sized, ok := source.(SizedSource); ok && s.progress != nil {
		s.progress.SetFinished(sized.Offset())
	}

	return s.Statistics(), nil
}

func (s *Simulation) startProgress(source RecordSource) {
	if s.monitor == nil {
		return
	}

	if sized, ok := source.(SizedSource); ok {
		s.progress = s.monitor.CreateProgressBar("Trace bytes", sized.Size())
		return
	}

	s.progress = s.monitor.CreateProgressBar("Trace records", 0)
}

func (s *Simulation) updateProgress(source RecordSource) {
	if s.progress == nil {
		return
	}

	if sized, ok := source.(SizedSource); ok {
		s.progress.SetFinished(sized.Offset())
		return
	}

	s.progress.IncrementFinished(1)
}

// A Summary is the recorded outcome of one run.
type Summary struct {
	ID            string
	NumSets       int
	NumWays       int
	BlockSize     int
	WriteAllocate bool
	WriteThrough  bool
	Policy        string
	TotalLoads    uint64
	TotalStores   uint64
	LoadHits      uint64
	LoadMisses    uint64
	StoreHits     uint64
	StoreMisses   uint64
	TotalCycles   uint64
}

func (s *Simulation) summary() Summary {
	config := s.cache.Config()
	stats := s.Statistics()

	return Summary{
		ID:            s.id,
		NumSets:       config.NumSets,
		NumWays:       config.NumWays,
		BlockSize:     config.BlockSize,
		WriteAllocate: config.WriteAllocate,
		WriteThrough:  config.WriteThrough,
		Policy:        config.Policy.String(),
		TotalLoads:    stats.TotalLoads,
		TotalStores:   stats.TotalStores,
		LoadHits:      stats.LoadHits,
		LoadMisses:    stats.LoadMisses,
		StoreHits:     stats.StoreHits,
		StoreMisses:   stats.StoreMisses,
		TotalCycles:   stats.TotalCycles,
	}
}

// Terminate writes the run summary, closes the recording, and stops the
// monitoring server.
func (s *Simulation) Terminate() error {
	var errs []error

	if s.dataRecorder != nil {
		s.dataRecorder.CreateTable(SummaryTableName, Summary{})
		s.dataRecorder.InsertData(SummaryTableName, s.summary())
		errs = append(errs, s.dataRecorder.Close())
	}

	if s.monitor != nil {
		if s.progress != nil {
			s.monitor.CompleteProgressBar(s.progress)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		errs = append(errs, s.monitor.StopServer(ctx))
	}

	return errors.Join(errs...)
}
