// Package command compiles typed AMCP requests into wire text and tracks
// each request through its lifecycle.
//
// Ownership boundary:
// - addressing modes and channel/layer extraction
// - parameter signatures, the validation pipeline and protocol logic rules
// - wire serialization and parsing
// - status state machine and response evaluation
// - the verb catalog
package command
