// Package testdoubles provides spies for the observability interfaces used across the library packages.
//
// All spies are safe for concurrent use and copy whatever they record.
package testdoubles
