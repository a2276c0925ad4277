// Package jwt is helpers for working with JSON Web Tokens (JWT).
//
// It includes:
//   - A typed Claims wrapper (registered claims + strongly-typed payload).
//   - A symmetric HS512 implementation for generating and verifying tokens.
//   - An HS256 challenge token for stateless email verification.
//   - Context helpers for storing and retrieving authenticated claims.
package jwt
