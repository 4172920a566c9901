// SPDX-License-Identifier: Apache-2.0

// Package version holds build metadata for the cogfix binaries.
package version

// Version is the release version, overridden at build time via ldflags.
var Version = "dev"

// Commit is the git commit the binaries were built from, overridden at
// build time via ldflags.
var Commit = "unknown"
