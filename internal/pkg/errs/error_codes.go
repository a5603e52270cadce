/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Messaging Errors
const (
	// ErrInvalidMessage indicates an inbound message is missing a recipient or
	// carries neither text nor an attachment.
	ErrInvalidMessage = 2001

	// ErrMessageContentTooLong indicates that the message text exceeded the maximum length limit.
	ErrMessageContentTooLong = 2002

	// ErrAttachmentTooLarge indicates that an attachment exceeded the maximum allowed size.
	ErrAttachmentTooLarge = 2003

	// ErrAttachmentTypeInvalid indicates an attachment with a disallowed or mismatched file type.
	ErrAttachmentTypeInvalid = 2004
)

// 3xxx: Identity, Session, and Account Errors
const (
	// ErrInvalidCredential indicates that a connection credential is missing, malformed,
	// or failed signature/expiry verification. The connection stays anonymous.
	ErrInvalidCredential = 3001

	// ErrUnauthenticated indicates that an unidentified connection attempted an
	// operation that requires a resolved identity.
	ErrUnauthenticated = 3002

	// ErrUnknownConnection indicates an operation referenced a connection that is
	// not (or no longer) tracked by the registry.
	ErrUnknownConnection = 3003

	// ErrInvalidUsername indicates a username that does not match the allowed format.
	ErrInvalidUsername = 3101

	// ErrInvalidPassword indicates a password outside the allowed length bounds.
	ErrInvalidPassword = 3102

	// ErrUserAlreadyExists indicates a registration attempt for a taken username.
	ErrUserAlreadyExists = 3103

	// ErrInvalidCredentials indicates a failed login (unknown user or wrong password).
	ErrInvalidCredentials = 3104

	// ErrUnauthorized indicates a REST request without a valid identity.
	ErrUnauthorized = 3105

	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = 3106
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrPersistenceFailed indicates the message history store rejected a write.
	// The affected message is never forwarded.
	ErrPersistenceFailed = 5001

	// ErrAttachmentStoreFailed indicates the blob store rejected an attachment write.
	// The whole message is rejected, not silently degraded to text-only.
	ErrAttachmentStoreFailed = 5002
)
