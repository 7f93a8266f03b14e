// Package server provides the MCP server context and the operational HTTP
// endpoints for the avery application.
//
// # Key Components
//
// ServerContext manages the profile store, the identity resolver, the
// availability engine and per-account Google API clients with lazy
// initialization and caching. Calendar transports are handed to the
// availability engine through a factory, so tests can inject fakes.
//
// HealthChecker serves liveness and readiness endpoints for Kubernetes
// probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from the main MCP traffic.
package server
