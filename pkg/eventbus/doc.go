// Package eventbus provides a minimal synchronous publish/subscribe bus for
// in-process domain events.
//
// Unlike channel-based broadcasters, delivery here is a direct call chain:
// Publish does not return until every subscriber's OnEvent has run. There is
// no queuing, no goroutines, and no delivery guarantee beyond "subscribers
// present at the start of Publish see the event exactly once". That trade-off
// keeps event handling deterministic, which is what a single-process backend
// wants when a published event must be fully processed before the request
// that caused it returns.
package eventbus
