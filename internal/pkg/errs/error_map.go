/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Messaging Errors
	ErrInvalidMessage:        {Code: ErrInvalidMessage, Message: "A message needs a recipient and either text or an attachment."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message text is too long."},
	ErrAttachmentTooLarge:    {Code: ErrAttachmentTooLarge, Message: "Attachment exceeds the maximum allowed size of %d MB."},
	ErrAttachmentTypeInvalid: {Code: ErrAttachmentTypeInvalid, Message: "Attachment file type is not allowed."},

	// 3xxx: Identity, Session, and Account Errors
	ErrInvalidCredential:  {Code: ErrInvalidCredential, Message: "Credential is missing, malformed, or expired."},
	ErrUnauthenticated:    {Code: ErrUnauthenticated, Message: "Identify this connection before sending messages."},
	ErrUnknownConnection:  {Code: ErrUnknownConnection, Message: "Connection is not registered."},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Username must be 4-20 characters: lowercase letters, digits, underscore."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be between 6 and 50 characters."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "This username is already taken.", Status: http.StatusConflict},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid username or password.", Status: http.StatusUnauthorized},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Authentication required.", Status: http.StatusUnauthorized},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown:               {Code: ErrUnknown, Message: "Internal server error.", Status: http.StatusInternalServerError},
	ErrPersistenceFailed:     {Code: ErrPersistenceFailed, Message: "Message could not be saved. It was not delivered.", Status: http.StatusInternalServerError},
	ErrAttachmentStoreFailed: {Code: ErrAttachmentStoreFailed, Message: "Attachment could not be stored. The message was not sent.", Status: http.StatusInternalServerError},
}
