// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() directly. The passcode expiry rules live entirely in business
// logic, so tests swap in a fake clock to exercise the expiry window without
// sleeping.
package clock
