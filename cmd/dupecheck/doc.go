// Package main hosts the dupecheck CLI entrypoint and command graph.
//
// The Cobra-based command tree evaluates submissions against the local
// content database, ingests historical content, hashes images, maintains the
// store and runs the HTTP server used by the publish pipeline. It centralizes
// configuration resolution, store opening and router wiring so subcommands
// can focus on input parsing and output rendering.
//
// Keep this package lean: matching rules live in internal/matcher and
// persistence in internal/store.
package main
