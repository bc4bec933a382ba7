package service

import (
	"net/http"

	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
)

// Sentinel errors returned by the service. Each carries the HTTP status it
// maps to; compare with errors.Is.
var (
	ErrUserNotFound   = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	ErrJobNotFound    = apperrors.New("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	ErrPairNotFound   = apperrors.New("PAIR_NOT_FOUND", "Friendship not found", http.StatusNotFound)
	ErrInviteNotFound = apperrors.New("INVITE_NOT_FOUND", "Job invite not found", http.StatusNotFound)

	ErrNotJobMember = apperrors.New("NOT_JOB_MEMBER", "You can only access jobs you are a member of", http.StatusForbidden)
	ErrNotPairParty = apperrors.New("NOT_PAIR_PARTY", "You can only change your own relationships", http.StatusForbidden)
	ErrNotInvitee   = apperrors.New("NOT_INVITEE", "Only the invited user can accept the invitation", http.StatusForbidden)
	ErrNotFriends   = apperrors.New("NOT_FRIENDS", "You are not friends with this user", http.StatusForbidden)

	ErrDuplicatePair  = apperrors.New("DUPLICATE_PAIR", "A relationship with this user already exists", http.StatusConflict)
	ErrAlreadyInvited = apperrors.New("ALREADY_INVITED", "You have already shared this job with this user", http.StatusConflict)
	ErrAlreadyMember  = apperrors.New("ALREADY_MEMBER", "This user is already a member of the job", http.StatusConflict)

	ErrSelfPair       = apperrors.New("SELF_PAIR", "You cannot befriend yourself", http.StatusBadRequest)
	ErrUnknownJobType = apperrors.New("UNKNOWN_JOB_TYPE", "Unknown job type", http.StatusBadRequest)
)
