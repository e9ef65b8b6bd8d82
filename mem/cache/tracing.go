package cache

import (
	"github.com/sarchlab/csim/sim/hooking"
)

// HookPosAccess is triggered once per load or store, after the cache state
// has been updated. The item is an AccessInfo.
var HookPosAccess = &hooking.HookPos{Name: "CacheAccess"}

// AccessInfo describes what a single access did to the cache.
type AccessInfo struct {
	Op      Op
	Address uint32
	Tag     uint32
	SetID   uint32
	Offset  uint32

	Hit bool

	// WayID is the way that was hit or filled. It is -1 when no line was
	// touched (a store miss without write-allocate).
	WayID int

	Allocated      bool
	Evicted        bool
	EvictedAddress uint32
	WriteBack      bool

	Cycles uint64
}

func (c *Cache) startAccess(op Op, addr uint32) AccessInfo {
	decoded := c.decoder.Decode(addr)

	return AccessInfo{
		Op:      op,
		Address: addr,
		Tag:     decoded.Tag,
		SetID:   decoded.SetID,
		Offset:  decoded.Offset,
		WayID:   -1,
	}
}

func (c *Cache) finishAccess(info AccessInfo) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosAccess,
		Item:   info,
	})
}
