// Package migrate upgrades persisted journal payloads to the current envelope.
//
// A persisted document is first classified into a Payload: a tagged union of
// the shapes the application has written over time (LegacyV0, EnvelopeV1) plus
// Foreign for versions this build does not know and Unrecognized for
// documents that are not envelopes at all.
//
// A Step upgrades a payload from version N to N+1. Migrator walks the chain
// from the detected version to its current version:
//
//	{ "entries": [...] }                 LegacyV0  --0->1-->  EnvelopeV1
//	{ "version": 1, "entries": [...] }   EnvelopeV1 (no steps)
//
// Migration never fails. A missing step, a step that produces the wrong
// version, or a chain longer than the number of registered steps (a cycle in a
// misconfigured table) yields the empty current-version state instead. The
// individual records are left undecoded; callers validate each one before
// trusting it.
package migrate
