// Package security provides the standalone cryptographic helpers used by the
// service and its tooling:
//
//   - Random salt generation (URL-safe base64)
//   - Salted PBKDF2-HMAC-SHA256 text hashing with constant-time verification
//   - HMAC signatures over a closed set of digest algorithms
//   - Symmetric encryption of text into Fernet tokens under a key derived
//     from an arbitrary secret
//   - File path validation for operator-supplied paths
//
// Every function is pure apart from entropy consumption and is safe for
// concurrent use. Errors wrap one of ErrInvalidArgument, ErrInvalidFormat,
// ErrMissingDependency or ErrIntegrity and are never logged here.
package security
