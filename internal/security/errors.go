package security

import "errors"

var (
	// ErrInvalidArgument reports caller-correctable input such as an empty
	// text or a non-positive length.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidFormat reports a stored hash record that is not
	// "salt$iterations$hash".
	ErrInvalidFormat = errors.New("invalid hash format")

	// ErrMissingDependency reports an Encrypter built without a cipher.
	ErrMissingDependency = errors.New("symmetric cipher unavailable")

	// ErrIntegrity reports a token that failed authentication or structural
	// validation on decryption.
	ErrIntegrity = errors.New("token integrity check failed")
)
