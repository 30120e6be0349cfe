// Package guard detects value objects, commands and queries that bypassed their
// constructor and are used as zero values.
package guard
