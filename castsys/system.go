package castsys

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// globalSystem is the process-wide "at most one system" slot. A
// compare-and-swap at CreateSystem time enforces the singleton; SystemJoin
// clears it once teardown completes, allowing a later system_create in the
// same process.
var globalSystem atomic.Pointer[System]

// System is a running actor system: one registry, one worker pool, and the
// bookkeeping needed for the join/teardown handshake. There is at most one
// of these alive in a process at a time (spec.md §1 Non-goals).
type System struct {
	opts options

	registryMu sync.Mutex // guards the registry field itself (nil after teardown)
	registry   *registry
	joinCond   *sync.Cond

	pool *workerPool

	alive    atomic.Bool
	signaled atomic.Bool
	sigCh    chan os.Signal

	instanceID string
}

// CreateSystem brings up a new actor system with one initial actor running
// role, and returns its id. It fails with ErrInitSystemError if a system
// already exists in this process; that system must be joined first.
func CreateSystem(role *Role, opts ...Option) (ActorID, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sys := &System{
		opts:       o,
		instanceID: uuid.NewString(),
	}
	sys.joinCond = sync.NewCond(&sys.registryMu)

	if !globalSystem.CompareAndSwap(nil, sys) {
		return 0, ErrInitSystemError
	}

	sys.alive.Store(true)
	sys.registry = newRegistry(o.castLimit, o.mailboxCapacity)
	sys.pool = newWorkerPool(o.poolSize)

	initial, err := sys.registry.add(role)
	if err != nil {
		fatalf(sys, "create initial actor: %v", err)
	}

	sys.logInfo("system created", "pool_size", o.poolSize, "cast_limit", o.castLimit, "initial_actor", initial)

	if o.installSigHandler {
		sys.installSignalHandler()
	}

	sys.pool.start(sys)

	actor, _ := sys.registry.get(initial)
	deliverHello(sys, actor, nil)

	return initial, nil
}

// Send delivers msg to target's mailbox and, per the "at most one enqueue"
// discipline, conditionally schedules target for service. See spec.md §4.5.
func Send(target ActorID, msg Message) error {
	sys := globalSystem.Load()
	if sys == nil || !sys.alive.Load() {
		return ErrNoActiveSystem
	}

	// The signaled teardown path never clears alive (only the quiescence
	// path at handleGoDie does), so a Send can still observe alive==true
	// after the last worker has already called destroySystem and nilled
	// the registry, racing SystemJoin clearing globalSystem. Read registry
	// under registryMu rather than dereferencing sys.registry directly.
	sys.registryMu.Lock()
	reg := sys.registry
	sys.registryMu.Unlock()
	if reg == nil {
		return ErrNoActiveSystem
	}

	actor, err := reg.get(target)
	if err != nil {
		return ErrUnknownActor
	}

	actor.mu.Lock()
	if actor.isDead || sys.signaled.Load() {
		actor.mu.Unlock()
		return ErrDeadOrStopping
	}
	actor.mailbox.push(msg)
	actor.mu.Unlock()

	trySchedule(actor, sys.pool)
	return nil
}

// SystemJoin blocks until the system terminates: every actor has died
// (normal path) or SIGINT drained the last burst (interrupt path). It then
// joins the worker pool, restores the prior signal disposition, and frees
// the global system slot so a later CreateSystem can succeed.
func SystemJoin(id ActorID) error {
	sys := globalSystem.Load()
	if sys == nil {
		return ErrNoActiveSystem
	}

	sys.registryMu.Lock()
	for sys.registry != nil {
		sys.joinCond.Wait()
	}
	sys.registryMu.Unlock()

	sys.pool.join()

	if sys.opts.installSigHandler {
		sys.restoreSignalHandler()
	}
	sys.signaled.Store(false)

	sys.logInfo("system joined")
	globalSystem.CompareAndSwap(sys, nil)
	return nil
}

// destroySystem is the first half of the teardown handshake (spec.md
// §4.6): the last worker to exit its dispatch loop calls this. It frees
// the registry (actor records and their mailboxes become unreachable and
// are reclaimed by the garbage collector) and wakes the joining goroutine.
// The second half — joining the pool's goroutines and restoring the signal
// handler — runs in SystemJoin, because workers must have already returned
// before the pool can be joined.
func (s *System) destroySystem() {
	s.registryMu.Lock()
	s.registry = nil
	s.joinCond.Broadcast()
	s.registryMu.Unlock()
}

// dispatch handles one dequeued envelope for actor: the two reserved types
// handled by the runtime itself, or a regular handler invocation. A panic
// inside a handler is recovered here so one faulty actor cannot take down
// the worker goroutine servicing unrelated actors; the actor is marked dead
// and the panic logged, mirroring bollywood/process.go's invokeReceive
// guard.
func (s *System) dispatch(actor *actorRecord, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("actor panicked, marking dead",
				"actor", actor.id, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			s.handleGoDie(actor)
		}
	}()

	switch msg.Type {
	case MsgSpawn:
		s.handleSpawn(actor, msg)
	case MsgGoDie:
		s.handleGoDie(actor)
	default:
		if msg.Type >= 0 && msg.Type < actor.role.NPrompts {
			actor.role.Handlers[msg.Type](&actor.userState, msg.NBytes, msg.Data)
		}
	}
}

// handleSpawn implements spec.md §4.5's SPAWN handling. Spawn is suppressed
// while the signal flag is set, so a system mid-shutdown stops growing.
func (s *System) handleSpawn(parent *actorRecord, msg Message) {
	if s.signaled.Load() {
		return
	}

	role, ok := msg.Data.(*Role)
	if !ok || role == nil {
		s.logWarn("spawn requested without a role, ignoring", "actor", parent.id)
		return
	}

	childID, err := s.registry.add(role)
	if err != nil {
		fatalf(s, "spawn actor: %v", err)
	}

	child, _ := s.registry.get(childID)
	deliverHello(s, child, parent.id)
}

// handleGoDie marks the actor dead and, if this was the last live actor,
// flips the system's alive flag and wakes every worker so they can begin
// exiting.
func (s *System) handleGoDie(actor *actorRecord) {
	becameQuiescent, err := s.registry.markDead(actor.id)
	if err != nil {
		return
	}
	if becameQuiescent {
		s.alive.Store(false)
		s.pool.wakeAll()
	}
}

// deliverHello appends a MsgHello envelope to actor's mailbox and schedules
// it, the way a normal send would, so it participates in ordinary FIFO
// ordering relative to any other message already queued for that actor.
func deliverHello(s *System, actor *actorRecord, data interface{}) {
	actor.mu.Lock()
	actor.mailbox.push(Message{Type: MsgHello, Data: data})
	actor.mu.Unlock()
	trySchedule(actor, s.pool)
}

// fatalf logs a structured diagnostic and aborts the process. Resource
// exhaustion (CAST_LIMIT exceeded, a lock primitive the runtime cannot
// construct) has no recovery path per spec.md §7.
func fatalf(s *System, format string, args ...any) {
	s.logError(fmt.Sprintf(format, args...))
	os.Exit(1)
}
