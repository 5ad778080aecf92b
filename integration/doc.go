//go:build integration

// Package integration contains end-to-end tests that push and fetch
// archives against a registry:2 container.
//
// Run with: go test -tags integration ./integration/...
// Set SKIP_DOCKER_TESTS=1 to skip tests that need Docker.
package integration
