// Package response owns AMCP reply decoding.
//
// Ownership boundary:
// - status line parsing and body framing rules
// - per-command response signatures (expected code, validator, parser)
// - body validators and typed parsers
package response
