// Package session owns the AMCP client transport.
//
// Ownership boundary:
// - dialing, TLS and connect backoff
// - server version negotiation and reply framing selection
// - line IO and reply decoding
// - the pending table correlating replies to commands
// - command timeouts
package session
