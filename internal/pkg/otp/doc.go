// Package otp issues and checks the numeric one-time codes the demo auth
// backend hands out. Codes are TOTP (RFC 6238) values over a fresh secret
// per challenge, so every issue or resend yields an independent code.
package otp
