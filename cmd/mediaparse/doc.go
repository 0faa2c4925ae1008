// Package main hosts the mediaparse CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into parser runs, report
// rendering, enrichment cache maintenance, and configuration scaffolding.
// Configuration is resolved once per invocation and shared by every
// subcommand; the extraction work itself lives in the internal packages.
package main
