// Package pipeline composes transformations over event streams.
//
// Stages wrap an inner stream and implement the stream contract
// themselves, so pipelines are built by nesting:
//
//	filtered := pipeline.NewFilter(reader,
//		pipeline.Structural(),
//		pipeline.Events(isApproval),
//	)
//	observed := pipeline.NewObserver(filtered, &pipeline.Stats{})
//
// # Filters
//
// The predicates of one Filter combine with OR; chaining Filters
// combines with AND. CNF builds such a chain from clause lists.
//
// # Handlers
//
// A Handler maps one item to zero, one or many items. Observer runs a
// handler chain over every pulled item and checks that log metadata
// precedes payload. Stats, Tee, Throttle and Async are ready-made
// stages for counting, fan-out, rate-limiting and offloaded
// observation.
package pipeline
