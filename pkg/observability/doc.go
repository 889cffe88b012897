/*
Package observability turns engine lifecycle hooks into Prometheus metrics and log lines.

Register a Metrics on a registry, pass Metrics.Hooks() to the engine and expose the
registry over HTTP (see promhttp.HandlerFor).
*/
package observability
