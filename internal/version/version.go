// Package version holds the generator's version string, stamped into
// generated files and reported by the version subcommand.
package version

// Version is the semantic version of the pipegen tool.
const Version = "0.3.0"
