package castsys

// ActorID is the opaque handle user code holds for an actor. Ids are dense,
// assigned sequentially starting at 0, and are stable and never reused for
// the lifetime of a system.
type ActorID int64

// Reserved message types, handled by the runtime itself rather than
// dispatched through a Role's handler table. They live outside the
// [0, NPrompts) range so they can never collide with a role's own handlers.
const (
	// MsgSpawn asks the runtime to create a new actor. Data must be a
	// *Role for the child. The runtime replies to the child with an
	// automatic MsgHello carrying the spawning actor's id.
	MsgSpawn = -1

	// MsgGoDie asks the runtime to mark the receiving actor dead. Already
	// queued messages ahead of it in the same burst are still drained.
	MsgGoDie = -2
)

// MsgHello is not a reserved type: it is the conventional index of the
// handler a Role runs on birth (index 0 of Handlers). The runtime
// synthesizes this message automatically for the system's initial actor
// (data nil) and for every actor created via MsgSpawn (data is the
// spawning actor's id).
const MsgHello = 0

// HandlerFunc is a single message handler. state is a pointer to the
// actor's user-state cell so a handler may replace it wholesale; nbytes is
// advisory size metadata for data, whose interpretation is entirely
// role-defined. The runtime never copies or inspects data.
type HandlerFunc func(state *interface{}, nbytes int, data interface{})

// Role is the immutable, user-supplied description of an actor's behavior:
// an ordered table of handlers keyed by message type. Message types
// 0..NPrompts-1 dispatch into Handlers; MsgSpawn/MsgGoDie are handled by the
// runtime and never reach Handlers.
type Role struct {
	NPrompts int
	Handlers []HandlerFunc
}

// Message is the triple user code sends and a handler receives. Ownership
// of Data is never transferred or copied by the runtime; only the envelope
// carrying the triple is runtime-owned.
type Message struct {
	Type   int
	NBytes int
	Data   interface{}
}
