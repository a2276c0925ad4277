// Package otp generates short-lived numeric one-time codes for email
// verification challenges.
//
// Codes are drawn from crypto/rand so every value in the range is equally
// likely; callers bind the code to an email with an HMAC and carry the
// binding in a signed token instead of storing state.
package otp
