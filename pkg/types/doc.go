// Package types defines the domain entities, store interfaces, and standard
// error values for the Primetime publish-time optimization engine.
package types
