// Package app owns the lifecycle of a gridblast invocation: logger and
// profile setup, dispatch to the local or grid execution path, and
// consumption of the merged results.
package app
