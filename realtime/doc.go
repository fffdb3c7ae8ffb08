// Package realtime drives a tickfsm.Machine from a fixed-rate ticker.
//
// Each tick executes exactly one state: its action runs, its transitions are
// evaluated in declaration order, and the selected state becomes active for
// the next tick. Entry into a state arms its timed transitions.
//
// # Example Usage
//
//	m, _ := b.Build()
//	rt := realtime.NewRuntime(m, realtime.Config{
//		TickRate: 10 * time.Millisecond,
//	})
//	rt.Start(ctx)
//	defer rt.Stop()
//
// # Errors
//
// A panicking action or predicate stops the loop. The error is logged, passed
// to Config.OnError and returned by Wait and Stop; it is never swallowed.
//
// # Concurrency
//
// The machine is only touched by the tick goroutine. GetCurrentState and
// GetTickNumber may be called from any goroutine. Actions and predicates run
// inline on the loop and should return quickly; a slow callback delays the
// next tick rather than overlapping it.
package realtime
