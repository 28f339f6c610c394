/*
Package observability exports binding activity as Prometheus metrics.

A Metrics collector turns the binder's lifecycle hooks into counters, so any
surface that builds an engine with WithLifecycleHooks(metrics.Hooks()) is
instrumented without the core knowing about Prometheus.
*/
package observability
