package castsys

import "sync"

// actorRecord is the runtime's per-actor state. id and role are set once at
// construction and never change; mailbox, isDead and isEnqueued are
// mutated under mu for the lifetime of the actor. userState is handed to
// handlers without mu held; only the worker currently servicing the actor
// touches it. Pointers to
// actorRecord remain valid for the lifetime of the system: the registry
// never removes entries, only appends.
type actorRecord struct {
	id   ActorID
	role *Role

	mu         sync.Mutex
	mailbox    *queue[Message]
	userState  interface{}
	isDead     bool
	isEnqueued bool
}

func newActorRecord(id ActorID, role *Role, mailboxCapacity int) *actorRecord {
	return &actorRecord{
		id:      id,
		role:    role,
		mailbox: newQueueWithCapacity[Message](mailboxCapacity),
	}
}
