package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Reason is the typed failure kind returned by relationship and engagement operations.
type Reason string

const (
	ReasonNotFound            Reason = "NotFound"
	ReasonInvalid             Reason = "Invalid"
	ReasonAlreadyRelated      Reason = "AlreadyRelated"
	ReasonNotRelated          Reason = "NotRelated"
	ReasonDuplicateRequest    Reason = "DuplicateRequest"
	ReasonAlreadyFriends      Reason = "AlreadyFriends"
	ReasonNoSuchRequest       Reason = "NoSuchRequest"
	ReasonAlreadyRequested    Reason = "AlreadyRequested"
	ReasonAlreadyMember       Reason = "AlreadyMember"
	ReasonNotAMember          Reason = "NotAMember"
	ReasonAlreadyManager      Reason = "AlreadyManager"
	ReasonNotAManager         Reason = "NotAManager"
	ReasonLastMember          Reason = "LastMemberError"
	ReasonDuplicateCode       Reason = "DuplicateCode"
	ReasonAlreadyLiked        Reason = "AlreadyLiked"
	ReasonNotLiked            Reason = "NotLiked"
	ReasonAlreadyShared       Reason = "AlreadyShared"
	ReasonNotShared           Reason = "NotShared"
	ReasonUnauthorized        Reason = "Unauthorized"
	ReasonPartialRelationship Reason = "PartialRelationship"
	ReasonVersionConflict     Reason = "VersionConflict"
	ReasonDuplicateKey        Reason = "DuplicateKey"
	ReasonEmailTaken          Reason = "EmailTaken"
	ReasonInvalidCredentials  Reason = "InvalidCredentials"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newReasonError(code ErrorCode, reason Reason, message string) *Error {
	return &Error{Code: code, Reason: reason, Message: message}
}

// WrapError wraps an existing error with a domain classification.
// The reason of a wrapped domain error is preserved.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Reason:  ReasonOf(err),
		Message: message,
		Err:     err,
	}
}

// PartialRelationship reports that the primary side of a two-aggregate mutation was saved
// while the counterpart side was not. The counterpart change is identified by operationID.
func PartialRelationship(operationID string, cause error) *Error {
	return &Error{
		Code:    ErrCodeUnavailable,
		Reason:  ReasonPartialRelationship,
		Message: fmt.Sprintf("relationship partially applied, operation %s queued for repair", operationID),
		Err:     cause,
	}
}

// Common domain errors.
var (
	ErrAccountNotFound      = newReasonError(ErrCodeNotFound, ReasonNotFound, "account not found")
	ErrProfileNotFound      = newReasonError(ErrCodeNotFound, ReasonNotFound, "profile not found")
	ErrGroupNotFound        = newReasonError(ErrCodeNotFound, ReasonNotFound, "group not found")
	ErrPostNotFound         = newReasonError(ErrCodeNotFound, ReasonNotFound, "post not found")
	ErrCommentNotFound      = newReasonError(ErrCodeNotFound, ReasonNotFound, "comment not found")
	ErrConversationNotFound = newReasonError(ErrCodeNotFound, ReasonNotFound, "conversation not found")
	ErrEntryNotFound        = newReasonError(ErrCodeNotFound, ReasonNotFound, "entry not found")
	ErrSessionNotFound      = newReasonError(ErrCodeNotFound, ReasonNotFound, "session not found")
	ErrAggregateNotFound    = newReasonError(ErrCodeNotFound, ReasonNotFound, "aggregate not found")
	ErrFriendNotFound       = newReasonError(ErrCodeNotFound, ReasonNotFound, "friend relationship not found")
	ErrRequestNotFound      = newReasonError(ErrCodeNotFound, ReasonNotFound, "friend request not found")

	ErrAlreadyFollowing = newReasonError(ErrCodeConflict, ReasonAlreadyRelated, "already following this user")
	ErrNotFollowing     = newReasonError(ErrCodeInvalid, ReasonNotRelated, "not following this user")
	ErrDuplicateRequest = newReasonError(ErrCodeConflict, ReasonDuplicateRequest, "friend request already sent")
	ErrAlreadyFriends   = newReasonError(ErrCodeConflict, ReasonAlreadyFriends, "already friends with this user")
	ErrNoSuchRequest    = newReasonError(ErrCodeInvalid, ReasonNoSuchRequest, "no pending request from this user")

	ErrAlreadyRequested = newReasonError(ErrCodeConflict, ReasonAlreadyRequested, "join request already pending")
	ErrAlreadyMember    = newReasonError(ErrCodeConflict, ReasonAlreadyMember, "already a member of this group")
	ErrNotAMember       = newReasonError(ErrCodeInvalid, ReasonNotAMember, "user is not a member of this group")
	ErrAlreadyManager   = newReasonError(ErrCodeConflict, ReasonAlreadyManager, "user already manages this group")
	ErrNotAManager      = newReasonError(ErrCodeInvalid, ReasonNotAManager, "user is not a manager of this group")
	ErrLastMember       = newReasonError(ErrCodeInvalid, ReasonLastMember, "cannot remove the last member of a group")
	ErrDuplicateCode    = newReasonError(ErrCodeConflict, ReasonDuplicateCode, "group already exists")

	ErrAlreadyLiked  = newReasonError(ErrCodeConflict, ReasonAlreadyLiked, "post already liked")
	ErrNotLiked      = newReasonError(ErrCodeInvalid, ReasonNotLiked, "post has not been liked yet")
	ErrAlreadyShared = newReasonError(ErrCodeConflict, ReasonAlreadyShared, "post already shared")
	ErrNotShared     = newReasonError(ErrCodeInvalid, ReasonNotShared, "post has not been shared yet")

	ErrVersionConflict = newReasonError(ErrCodeConflict, ReasonVersionConflict, "aggregate was modified concurrently")
	ErrDuplicateKey    = newReasonError(ErrCodeConflict, ReasonDuplicateKey, "unique key already taken")
	ErrStaleEdgeChange = newReasonError(ErrCodeConflict, ReasonVersionConflict, "edge change overtaken by a later operation")

	ErrEmailTaken         = newReasonError(ErrCodeConflict, ReasonEmailTaken, "email already registered")
	ErrInvalidCredentials = newReasonError(ErrCodeUnauthorized, ReasonInvalidCredentials, "credentials are not valid")
	ErrUnauthorized       = newReasonError(ErrCodeUnauthorized, ReasonUnauthorized, "unauthorized")
	ErrForbidden          = newReasonError(ErrCodeForbidden, ReasonUnauthorized, "user is not authorized")
	ErrInvalidPayload     = newReasonError(ErrCodeInvalid, ReasonInvalid, "invalid payload")
	ErrSelfRelation       = newReasonError(ErrCodeInvalid, ReasonInvalid, "cannot relate a user to themselves")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ReasonOf returns the failure kind of the outermost domain error in the chain.
func ReasonOf(err error) Reason {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Reason
	}
	return ""
}
