// Package settle decides when an asynchronously-rendering page is ready to be read.
//
// The target page recomputes its output on every keystroke, on a debounce schedule
// it does not expose. Reading immediately after writing is racy, so every read is
// preceded by an explicit wait contract:
//
//   - A readiness predicate (OutputReady) is polled with a bounded total wait.
//   - After the predicate first holds, a fixed grace delay absorbs multi-stage
//     re-rendering: the predicate proves that something rendered, not that the
//     final result rendered.
//
// # Policy
//
// All waits are named values on Policy so they can be tuned per environment
// instead of being hard-coded sleeps:
//
//	NavigationTimeout  bound on page load (network idle)
//	LoadSettle         fixed delay after load
//	ClearSettle        fixed delay after clearing the input (page debounce)
//	ReadyTimeout       bound on polling the readiness predicate
//	PollInterval       delay between predicate evaluations
//	GraceDelay         fixed delay after readiness is first observed
//	InterCaseDelay     delay between consecutive cases
//	KeystrokeDelay     per-character delay for incremental typing
//	PartialSettle      delay before the intermediate read of a liveness check
//
// # Phases
//
// Each case moves through Idle → Cleared → Injecting → AwaitingReady → Ready →
// Read → Verdict. Tracker enforces the transitions; Failed is terminal and is
// reachable from every phase.
//
// # Time
//
// All waiting goes through the Clock interface. Production code uses SystemClock;
// tests use a manual clock so that polling is deterministic and instant.
package settle
