// Package mock provides test doubles for the ai package interfaces.
//
// Mocks support two styles of use: canned behavior (queued responses,
// deterministic vectors, fixed spans) for simple tests, and function-field
// injection for tests that need per-call control or failure simulation.
// All mocks are safe for concurrent use.
package mock
