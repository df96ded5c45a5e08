/*
Package observability provides Prometheus collectors for the flowmap diagram pipeline.

Every Metrics value owns its own registry so that several managers (or tests) can coexist in
one process without colliding on the global default registry. The registry is exposed through
Handler for the HTTP /metrics endpoint.

All recording methods are safe on a nil *Metrics, which lets callers treat metrics as optional.
*/
package observability
