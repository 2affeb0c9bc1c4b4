package castsys

import (
	"fmt"
	"sync"
)

// defaultCastLimit is the hard ceiling on the number of actors ever
// created in one system (spec.md 3's CAST_LIMIT), grounded on the C
// source's add_act aborting once vec->curr_size == CAST_LIMIT.
const defaultCastLimit = 1 << 20 // 1,048,576

// registry is the append-only, indexed collection of actor records for one
// system. Growth and dead-count accounting are guarded by mu; individual
// actor records carry their own lock for mailbox/is_dead/is_enqueued.
//
// The C source exposed two lookup flavors — a locked vector_get and an
// unlocked vector_get_no_mutex used only when the caller already held the
// registry lock on the same path (inside mark_dead). spec.md's design
// notes call that split "an artifact of the original lock structure" and
// recommend a single lookup primitive in a rewrite; registry.get is that
// single primitive.
type registry struct {
	mu              sync.RWMutex
	actors          []*actorRecord
	deadCount       int
	castLimit       int
	mailboxCapacity int
}

func newRegistry(castLimit, mailboxCapacity int) *registry {
	return &registry{castLimit: castLimit, mailboxCapacity: mailboxCapacity}
}

// add constructs a new actor record for role and returns its id. Exceeding
// castLimit is a resource-exhaustion condition per spec.md §7: fatal, no
// recovery path, so add reports it as an error for the caller to escalate
// to a process abort rather than panicking here itself.
func (r *registry) add(role *Role) (ActorID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.actors) >= r.castLimit {
		return 0, fmt.Errorf("castsys: cast limit (%d) exceeded", r.castLimit)
	}

	id := ActorID(len(r.actors))
	r.actors = append(r.actors, newActorRecord(id, role, r.mailboxCapacity))
	return id, nil
}

// get looks up the actor record for id. The bounds check is strict
// less-than: spec.md's design notes flag the C source's `id <= curr_size`
// as an off-by-one that admits a one-past-the-end read, and call strict
// less-than the correct behavior.
func (r *registry) get(id ActorID) (*actorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 0 || int(id) >= len(r.actors) {
		return nil, ErrUnknownActor
	}
	return r.actors[id], nil
}

// size reports how many actors have ever been created in this system.
func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actors)
}

// markDead flips an actor's is_dead flag and accounts for it in the
// registry's dead count, observing the "actor-lock before registry-lock"
// ordering spec.md §4.2 mandates. It reports whether the whole system just
// became quiescent (every actor now dead), in which case the caller is
// responsible for flipping the system's alive flag and waking all workers.
func (r *registry) markDead(id ActorID) (becameQuiescent bool, err error) {
	actor, err := r.get(id)
	if err != nil {
		return false, err
	}

	actor.mu.Lock()
	defer actor.mu.Unlock()

	if actor.isDead {
		return false, nil
	}
	actor.isDead = true

	r.mu.Lock()
	r.deadCount++
	becameQuiescent = r.deadCount == len(r.actors)
	r.mu.Unlock()

	return becameQuiescent, nil
}
