package castsys

import (
	"runtime"
	"strconv"
	"sync"
)

// Go has no native thread-local storage, so self-identification is emulated
// with a goroutine-id-keyed map, as permitted by spec.md's design note that
// "any target language with TLS or task-local storage suffices". Each pool
// worker is a long-lived goroutine that sets its entry once per service
// burst and clears it once the burst ends, so the map never grows beyond
// POOL_SIZE live entries.
var (
	selfIDMu sync.RWMutex
	selfID   = make(map[int64]ActorID)
)

// goroutineID parses the numeric id out of runtime.Stack's header line.
// This is the same trick used by several goroutine-local-storage shims in
// the wild; it is slow, so the runtime itself calls it only at burst
// boundaries (setSelfID/clearSelfID), never per message. SelfID pays the
// same cost on every call a handler makes.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Header looks like "goroutine 123 [running]:\n...".
	b := buf[:n]
	const prefix = "goroutine "
	for i := range b {
		if i+len(prefix) <= len(b) && string(b[i:i+len(prefix)]) == prefix {
			b = b[i+len(prefix):]
			break
		}
	}
	end := 0
	for end < len(b) && b[end] >= '0' && b[end] <= '9' {
		end++
	}
	id, err := strconv.ParseInt(string(b[:end]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}

// setSelfID records that the calling goroutine is now servicing id.
func setSelfID(id ActorID) {
	gid := goroutineID()
	selfIDMu.Lock()
	selfID[gid] = id
	selfIDMu.Unlock()
}

// clearSelfID forgets the calling goroutine's current actor.
func clearSelfID() {
	gid := goroutineID()
	selfIDMu.Lock()
	delete(selfID, gid)
	selfIDMu.Unlock()
}

// SelfID returns the id of the actor whose handler is currently executing
// on the calling goroutine, and true if the calling goroutine is in fact a
// pool worker mid-burst. Called from outside a handler (e.g. from the
// goroutine that called CreateSystem), it returns (0, false).
func SelfID() (ActorID, bool) {
	gid := goroutineID()
	selfIDMu.RLock()
	defer selfIDMu.RUnlock()
	id, ok := selfID[gid]
	return id, ok
}
