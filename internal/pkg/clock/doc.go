// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now(), time.AfterFunc or time.NewTicker directly. Callbacks scheduled
// through a Clocker are owned by the caller and must be stopped when the owner
// goes away. Fake drives the same callbacks deterministically in tests.
package clock
