// Package otp provides helpers for generating one-time passcodes (OTP).
//
// Codes are independent random values bound to server-side state, not derived
// from a shared secret: the caller persists the generated code and later
// compares a user submission against it.
package otp
