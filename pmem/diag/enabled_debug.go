//go:build pmemdebug

package diag

// Enabled reports whether logging and assertions are compiled in.
const Enabled = true
