// Package navigation decides which move a robot makes next.
//
// A Strategy is driven one tick at a time by calling Step with the world it
// controls. Manual replays a single queued command per tick; Explorer walks
// the free space depth-first and backtracks along its own trail until every
// reachable cell has been cleaned.
//
// Strategies keep their own bookkeeping and are not safe for concurrent use.
// Callers that share a world between goroutines must serialise Step calls.
package navigation
