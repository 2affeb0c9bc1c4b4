package castsys

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// dieOnHello builds a one-handler Role whose HELLO handler immediately
// sends itself MsgGoDie — scenario S1 from spec.md §8.
func dieOnHello() *Role {
	return &Role{
		NPrompts: 1,
		Handlers: []HandlerFunc{
			func(state *interface{}, nbytes int, data interface{}) {
				id, ok := SelfID()
				if !ok {
					return
				}
				_ = Send(id, Message{Type: MsgGoDie})
			},
		},
	}
}

func TestSingleActorLifecycle(t *testing.T) {
	id, err := CreateSystem(dieOnHello(), WithoutSignalHandler())
	require.NoError(t, err)

	err = SystemJoin(id)
	require.NoError(t, err)

	require.Nil(t, globalSystem.Load(), "system slot must be freed after join")
}

func TestDoubleCreateRejected(t *testing.T) {
	id, err := CreateSystem(dieOnHello(), WithoutSignalHandler())
	require.NoError(t, err)

	_, err = CreateSystem(dieOnHello(), WithoutSignalHandler())
	require.ErrorIs(t, err, ErrInitSystemError)

	require.NoError(t, SystemJoin(id))
}

func TestSelfIDRoundTrip(t *testing.T) {
	var observed atomic.Int64
	var done atomic.Bool

	role := &Role{
		NPrompts: 1,
		Handlers: []HandlerFunc{
			func(state *interface{}, nbytes int, data interface{}) {
				id, ok := SelfID()
				require.True(t, ok)
				observed.Store(int64(id))
				done.Store(true)
				_ = Send(id, Message{Type: MsgGoDie})
			},
		},
	}

	id, err := CreateSystem(role, WithoutSignalHandler())
	require.NoError(t, err)
	require.NoError(t, SystemJoin(id))

	require.True(t, done.Load())
	require.Equal(t, int64(id), observed.Load())
}

// fanOutSpawn spawns n children via self-sends of MsgSpawn, each of which
// GODIEs immediately on HELLO — scenario S4 (spawn fan-out under pool
// pressure) from spec.md §8, adapted to a small n for test speed.
func fanOutSpawn(n int, spawned, childDone *atomic.Int64, wg *sync.WaitGroup) *Role {
	childRole := &Role{
		NPrompts: 1,
		Handlers: []HandlerFunc{
			func(state *interface{}, nbytes int, data interface{}) {
				childDone.Add(1)
				wg.Done()
				id, _ := SelfID()
				_ = Send(id, Message{Type: MsgGoDie})
			},
		},
	}

	return &Role{
		NPrompts: 2,
		Handlers: []HandlerFunc{
			// HELLO: kick off the fan-out by sending ourselves MsgSpawn n
			// times.
			func(state *interface{}, nbytes int, data interface{}) {
				id, _ := SelfID()
				for i := 0; i < n; i++ {
					_ = Send(id, Message{Type: MsgSpawn, Data: childRole})
				}
			},
			// unused second slot kept to show NPrompts can exceed what a
			// given burst exercises.
			func(state *interface{}, nbytes int, data interface{}) {},
		},
	}
}

func TestSpawnFanOutUnderPoolPressure(t *testing.T) {
	const n = 200
	var spawned, childDone atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)

	root := fanOutSpawn(n, &spawned, &childDone, &wg)

	rootID, err := CreateSystem(root, WithPoolSize(2), WithoutSignalHandler())
	require.NoError(t, err)

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for all spawned children to run")
	}

	require.Equal(t, int64(n), childDone.Load())

	// Root never dies on its own in this scenario (it only spawns), so
	// kill it explicitly to let the system quiesce and join return.
	_ = Send(rootID, Message{Type: MsgGoDie})
	require.NoError(t, SystemJoin(rootID))
}

// TestMutualExclusionPerActor instruments every actor with an in-handler
// flag and fails if two handlers of the same actor are ever observed
// running concurrently — property 1 from spec.md §8.
func TestMutualExclusionPerActor(t *testing.T) {
	const actors = 8
	const messagesPerActor = 200

	var violated atomic.Bool
	inHandler := make([]atomic.Bool, actors)
	var remaining atomic.Int64
	remaining.Store(int64(actors * messagesPerActor))
	done := make(chan struct{})

	role := &Role{
		NPrompts: 2,
		Handlers: []HandlerFunc{
			func(state *interface{}, nbytes int, data interface{}) {},
			func(state *interface{}, nbytes int, data interface{}) {
				idx := data.(int)
				if !inHandler[idx].CompareAndSwap(false, true) {
					violated.Store(true)
				}
				// Give a concurrent handler a chance to observe the flag
				// if mutual exclusion were actually broken.
				time.Sleep(time.Microsecond)
				inHandler[idx].Store(false)

				if remaining.Add(-1) == 0 {
					close(done)
				}
			},
		},
	}

	id, err := CreateSystem(role, WithoutSignalHandler())
	require.NoError(t, err)
	for i := 1; i < actors; i++ {
		require.NoError(t, Send(id, Message{Type: MsgSpawn, Data: role}))
	}

	// The spawned siblings' ids are dense and sequential starting right
	// after id, since nothing else has been created in this system and
	// root processes the SPAWN messages sent to it in order.
	parents := make([]ActorID, actors)
	for i := 0; i < actors; i++ {
		parents[i] = id + ActorID(i)
	}

	// Wait for every spawned sibling to actually be registered before
	// addressing it: spawning happens asynchronously inside root's burst.
	sys := globalSystem.Load()
	require.Eventually(t, func() bool {
		return sys.registry.size() >= actors
	}, 5*time.Second, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < actors; i++ {
		target := parents[i]
		idx := i
		for j := 0; j < messagesPerActor; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = Send(target, Message{Type: 1, Data: idx})
			}()
		}
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for all instrumented messages to process")
	}

	require.False(t, violated.Load(), "two handlers of the same actor ran concurrently")

	for i := 0; i < actors; i++ {
		_ = Send(parents[i], Message{Type: MsgGoDie})
	}
	require.NoError(t, SystemJoin(id))
}

// TestMailboxFIFO verifies property 2: messages sent from the same thread,
// in order, are processed in that order.
func TestMailboxFIFO(t *testing.T) {
	var mu sync.Mutex
	var order []int

	role := &Role{
		NPrompts: 2,
		Handlers: []HandlerFunc{
			func(state *interface{}, nbytes int, data interface{}) {},
			func(state *interface{}, nbytes int, data interface{}) {
				mu.Lock()
				order = append(order, data.(int))
				mu.Unlock()
			},
		},
	}

	id, err := CreateSystem(role, WithoutSignalHandler())
	require.NoError(t, err)

	const n = 500
	for i := 0; i < n; i++ {
		require.NoError(t, Send(id, Message{Type: 1, Data: i}))
	}
	_ = Send(id, Message{Type: MsgGoDie})
	require.NoError(t, SystemJoin(id))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, n)
	for i, v := range order {
		require.Equal(t, i, v)
	}
}

// TestSignaledSystemRejectsSendsAndDrainsInFlight exercises the idempotent
// shutdown path (property 6 / scenario S5) without depending on the
// process actually receiving SIGINT: the signaled flag is driven directly,
// which is what the installed handler would do anyway.
func TestSignaledSystemRejectsSendsAndDrainsInFlight(t *testing.T) {
	var processed atomic.Int64
	release := make(chan struct{})

	role := &Role{
		NPrompts: 2,
		Handlers: []HandlerFunc{
			func(state *interface{}, nbytes int, data interface{}) {
				<-release // hold the burst open so we can signal mid-burst
			},
			func(state *interface{}, nbytes int, data interface{}) {
				processed.Add(1)
			},
		},
	}

	id, err := CreateSystem(role, WithPoolSize(1), WithoutSignalHandler())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, Send(id, Message{Type: 1}))
	}

	sys := globalSystem.Load()
	sys.signaled.Store(true)
	sys.pool.wakeAll()

	require.ErrorIs(t, Send(id, Message{Type: 1}), ErrDeadOrStopping)

	close(release)
	_ = Send(id, Message{Type: MsgGoDie})

	// The worker is draining: with signaled set and the mailbox eventually
	// empty, it exits without further scheduling. Kill the actor
	// explicitly is a no-op at this point since sends are already
	// rejected; join must still return because the pool observes
	// signaled && runnable-empty.
	require.NoError(t, SystemJoin(id))
	require.Equal(t, int64(10), processed.Load(), "messages already queued before signaling must still be drained")
}
