package entity

import "time"

// OTP is a one-time passcode issued to a single email address.
//
// IssuedAt records when the passcode was generated so its age can be checked
// independently of the cache TTL.
type OTP struct {
	Email    string
	Code     string
	IssuedAt time.Time
}
