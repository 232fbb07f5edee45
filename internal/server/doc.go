// Package server implements the HTTP surface of family-drop: the upload
// endpoint, health and readiness probes, and the Prometheus scrape endpoint.
// It wires the upload service and storage backend into routes and provides
// the lifecycle helpers used by the binary and tests.
package server
