// Package validate owns the parameter validators that turn loosely typed
// caller input into wire-safe AMCP tokens.
//
// Ownership boundary:
// - input shapes (token list or structured field)
// - per-kind coercion, clamping and quoting
// - the soft "could not validate" signal (ErrUnresolved)
//
// Validators keep no state between calls beyond their configuration.
package validate
