// Package session implements the stateful effect-bundle session: one
// processing-engine instance shared by several cooperating effect slots
// (equalizer, bass boost, virtualizer, volume), with enable/disable
// lifecycle, sample-accurate drain accounting, per-cycle call
// reconciliation, and a mirrored parameter store.
//
// Several effect slots share one engine, so they must agree on a single
// "process now" moment per buffer. Each slot's Process call performs its
// own drain bookkeeping; the engine is invoked only once per cycle, after
// every enabled-or-draining slot has been polled, and buffers are passed
// through unchanged while no slot has data pending.
//
// All operations are synchronized by one session lock. Control calls
// (Enable, Disable, SetPreset, SetBandLevels, SetVolumeStereo) may come
// from a control thread while Process runs on an audio callback thread;
// the lock serializes them and the mirrored parameter state is committed
// only after the corresponding engine push succeeded.
package session
