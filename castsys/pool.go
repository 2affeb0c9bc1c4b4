package castsys

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// workerPool is the fixed set of workers consuming the runnable queue,
// grounded on the C source's thread_pool / tpool_worker but realized with
// goroutines instead of pthreads and an errgroup instead of a bare array of
// pthread_t. Workers always return nil and join discards Wait's result, so
// no worker error reaches SystemJoin.
type workerPool struct {
	size int

	mu            sync.Mutex
	cond          *sync.Cond
	runnable      *queue[ActorID]
	activeWorkers int
	draining      bool

	group *errgroup.Group
}

func newWorkerPool(size int) *workerPool {
	p := &workerPool{
		size:     size,
		runnable: newQueue[ActorID](),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// start launches size worker goroutines, each running sys's dispatch loop.
func (p *workerPool) start(sys *System) {
	p.mu.Lock()
	p.activeWorkers = p.size
	p.mu.Unlock()

	g := &errgroup.Group{}
	p.group = g
	for i := 0; i < p.size; i++ {
		g.Go(func() error {
			runWorker(sys, p)
			return nil
		})
	}
}

// join blocks until every worker goroutine has returned.
func (p *workerPool) join() {
	if p.group != nil {
		_ = p.group.Wait()
	}
}

// wakeAll broadcasts the not-empty condition, used when the system becomes
// quiescent or signaled so idle workers notice immediately.
func (p *workerPool) wakeAll() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

// trySchedule implements the "at most one enqueue" discipline of
// spec.md §4.4: an actor's id is pushed onto runnable only if its mailbox
// is non-empty and it is not already enqueued (or being drained). Lock
// order is actor-lock before pool-lock, matching spec.md §4.4/§5.
func trySchedule(actor *actorRecord, pool *workerPool) {
	actor.mu.Lock()
	shouldEnqueue := !actor.mailbox.empty() && !actor.isEnqueued
	if shouldEnqueue {
		actor.isEnqueued = true
	}
	actor.mu.Unlock()

	if !shouldEnqueue {
		return
	}

	pool.mu.Lock()
	pool.runnable.push(actor.id)
	pool.cond.Signal()
	pool.mu.Unlock()
}

// runWorker is one worker's dispatch loop: §4.3 of spec.md, verbatim in
// structure. Each iteration waits for a runnable actor, pops exactly one
// id, reads the snapshot count under the actor lock, releases the pool
// lock, then services that many messages before re-checking whether the
// actor needs to go back on the queue.
func runWorker(sys *System, pool *workerPool) {
	for {
		pool.mu.Lock()
		for pool.runnable.empty() && sys.alive.Load() && !pool.draining && !sys.signaled.Load() {
			pool.cond.Wait()
		}

		if (!sys.alive.Load() || sys.signaled.Load()) && pool.runnable.empty() {
			pool.draining = true
			pool.cond.Broadcast()
			pool.mu.Unlock()
			break
		}

		id, ok := pool.runnable.pop()
		if !ok {
			// Woken spuriously with nothing to do; loop and re-check.
			pool.mu.Unlock()
			continue
		}

		actor, err := sys.registry.get(id)
		if err != nil {
			// Actor vanished from under us; cannot happen in practice
			// since the registry never removes entries, but don't let a
			// corrupt queue entry wedge the worker.
			pool.mu.Unlock()
			continue
		}

		// actor.mu and registry's RLock are both taken here while still
		// holding pool.mu, which inverts §5's actor-before-pool/registry
		// hierarchy. That's deadlock-free only because neither
		// trySchedule nor registry.markDead ever holds actor.mu or the
		// registry lock while waiting on pool.mu/pool.cond — if a future
		// change makes either of those wait on the pool while holding its
		// own lock, this becomes a lock-order cycle.
		actor.mu.Lock()
		n := actor.mailbox.len()
		actor.mu.Unlock()

		setSelfID(id)
		pool.mu.Unlock()

		serviceBurst(sys, actor, n)

		clearSelfID()

		actor.mu.Lock()
		actor.isEnqueued = false
		actor.mu.Unlock()

		// Post-run re-check: a sender that raced the burst may have seen
		// is_enqueued == true and skipped scheduling; this call is the
		// other half of the "at least one path fires" guarantee.
		trySchedule(actor, pool)
	}

	pool.mu.Lock()
	pool.activeWorkers--
	last := pool.activeWorkers == 0
	pool.mu.Unlock()

	if last {
		sys.destroySystem()
	}
}

// serviceBurst executes up to n messages from actor's mailbox in FIFO
// order — the snapshot count bounds the burst to what was present at
// dispatch time, so a handler that sends to itself in a loop cannot starve
// the rest of the pool: the self-directed messages land at the tail of a
// later burst via the re-enqueue path.
func serviceBurst(sys *System, actor *actorRecord, n int) {
	for i := 0; i < n; i++ {
		actor.mu.Lock()
		msg, ok := actor.mailbox.pop()
		actor.mu.Unlock()
		if !ok {
			return
		}
		sys.dispatch(actor, msg)
	}
}
