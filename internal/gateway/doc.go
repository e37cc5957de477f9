// Package gateway exposes the AMCP engine over HTTP.
//
// Routes:
//   - GET /health and GET /metrics
//   - GET /v1/verbs lists the catalog
//   - POST /v1/compile validates a command and returns its wire text
//   - POST /v1/commands sends a command through the session and returns its
//     snapshot; guarded by a bearer token when one is configured
//   - GET /v1/pending lists in-flight commands
package gateway
