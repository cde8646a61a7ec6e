// Package jwt is helpers for working with JSON Web Tokens (JWT).
//
// It includes:
//   - A typed Claims wrapper (registered claims + the MovieBuzz user payload).
//   - A symmetric HS512 implementation used by the demo auth backend.
//   - Inspect, which reads claims without a key so the client can drop a
//     stored token that has already expired.
package jwt
