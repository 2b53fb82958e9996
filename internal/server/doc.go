// Package server exposes the matcher to the publish pipeline over HTTP.
//
// It wires configuration, the content store and the router into a single
// lifecycle with flock-based locking so only one process writes hashes to a
// database. Handlers are thin: they decode a submission, call the router and
// encode the verdict. Evaluation always fails open; recording reports errors.
//
// Routes:
//   - POST /v1/evaluate: verdict for a submission
//   - POST /v1/record: attach fingerprints to an accepted item
//   - GET /v1/health: liveness plus store counters
package server
