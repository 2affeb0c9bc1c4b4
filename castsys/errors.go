package castsys

import "errors"

// Sentinel errors returned by Send and CreateSystem. These correspond 1:1
// to the C source's negative return codes (kept here only as a comment,
// never surfaced to callers as ints):
//
//	0  success            -> nil
//	-1 unknown/dead actor -> ErrUnknownActor / ErrDeadOrStopping
//	-2 stopping           -> ErrDeadOrStopping
//	-3 INIT_SYSTEM_ERROR  -> ErrInitSystemError
//	-4 NO_ACTIVE_SYSTEM   -> ErrNoActiveSystem
var (
	// ErrNoActiveSystem is returned when no system has been created, or
	// the system that exists has already begun teardown.
	ErrNoActiveSystem = errors.New("castsys: no active system")

	// ErrUnknownActor is returned when the target id was never issued by
	// the registry (id >= registry size).
	ErrUnknownActor = errors.New("castsys: unknown actor")

	// ErrDeadOrStopping is returned when the target actor is already dead,
	// or the system has received its shutdown signal and is no longer
	// accepting new sends.
	ErrDeadOrStopping = errors.New("castsys: actor dead or system stopping")

	// ErrInitSystemError is returned by CreateSystem when a system already
	// exists in this process. At most one system exists per process.
	ErrInitSystemError = errors.New("castsys: system already initialized")
)
