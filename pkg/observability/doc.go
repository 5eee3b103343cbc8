/*
Package observability provides tools for monitoring the mathpad editor.

It turns the editor's lifecycle hooks into Prometheus metrics and structured log
lines. Both are plain domain.LifecycleHooks values, so hosts combine them with
LifecycleHooks.Merge and hand the result to the engine.
*/
package observability
