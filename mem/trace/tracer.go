// Package trace reads memory access traces and records what a cache did
// with each access.
package trace

import (
	"log"

	"github.com/rs/xid"

	"github.com/sarchlab/csim/datarecording"
	"github.com/sarchlab/csim/mem/cache"
	"github.com/sarchlab/csim/sim/hooking"
)

// AccessTableName is the table the DB tracer writes to.
const AccessTableName = "cache_accesses"

// accessEntry is one row of the access table.
type accessEntry struct {
	ID             string
	Seq            uint64
	Location       string
	Op             string
	Address        uint32
	Tag            uint32
	SetID          uint32
	WayID          int
	Hit            bool
	Evicted        bool
	EvictedAddress uint32
	WriteBack      bool
	Cycles         uint64
}

type named interface {
	Name() string
}

func locationOf(ctx hooking.HookCtx) string {
	if n, ok := ctx.Domain.(named); ok {
		return n.Name()
	}

	return ""
}

func accessInfoOf(ctx hooking.HookCtx) (cache.AccessInfo, bool) {
	if ctx.Pos != cache.HookPosAccess {
		return cache.AccessInfo{}, false
	}

	info, ok := ctx.Item.(cache.AccessInfo)

	return info, ok
}

func outcome(info cache.AccessInfo) string {
	if info.Hit {
		return "hit"
	}

	return "miss"
}

// A tracer is a hook that prints every cache access to a logger.
type tracer struct {
	logger *log.Logger
	seq    uint64
}

// NewTracer creates a hook that logs one line per access.
func NewTracer(logger *log.Logger) hooking.Hook {
	return &tracer{logger: logger}
}

func (t *tracer) Func(ctx hooking.HookCtx) {
	info, ok := accessInfoOf(ctx)
	if !ok {
		return
	}

	t.seq++

	t.logger.Printf("%d, %s, %s, 0x%08x, set %d, way %d, %s, %d cycles",
		t.seq,
		locationOf(ctx),
		info.Op,
		info.Address,
		info.SetID,
		info.WayID,
		outcome(info),
		info.Cycles,
	)

	if info.Evicted {
		t.logger.Printf("%d, evict 0x%08x, writeback %t",
			t.seq, info.EvictedAddress, info.WriteBack)
	}
}

// A dbTracer is a hook that records every cache access into a database
// using the data recorder.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
	seq          uint64
}

// NewDBTracer creates a hook that records accesses in the
// cache_accesses table.
func NewDBTracer(dataRecorder datarecording.DataRecorder) hooking.Hook {
	t := &dbTracer{
		dataRecorder: dataRecorder,
	}

	t.dataRecorder.CreateTable(AccessTableName, accessEntry{})

	return t
}

func (t *dbTracer) Func(ctx hooking.HookCtx) {
	info, ok := accessInfoOf(ctx)
	if !ok {
		return
	}

	t.seq++

	t.dataRecorder.InsertData(AccessTableName, accessEntry{
		ID:             xid.New().String(),
		Seq:            t.seq,
		Location:       locationOf(ctx),
		Op:             info.Op.String(),
		Address:        info.Address,
		Tag:            info.Tag,
		SetID:          info.SetID,
		WayID:          info.WayID,
		Hit:            info.Hit,
		Evicted:        info.Evicted,
		EvictedAddress: info.EvictedAddress,
		WriteBack:      info.WriteBack,
		Cycles:         info.Cycles,
	})
}
