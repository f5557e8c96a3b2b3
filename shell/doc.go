// Package shell maps the domain events of package core to the scalar StorableEvent of package journal and back.
//
// Every stored event carries EventMetadata with a message, a causation and a correlation ID so that events
// produced by one logical action (e.g. loading a seed file) can be grouped later.
package shell
