package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("invalid parameters")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserBan                 = errors.New("user is banned")
	ErrUserExist               = errors.New("user already exists")
	ErrUserPhoneNotFound       = errors.New("phone number not registered")
	ErrUserPhoneExist          = errors.New("phone number already registered")
	ErrUserUsernameExist       = errors.New("username already taken")
	ErrPasswordIncorrect       = errors.New("incorrect password")
	ErrCodeIncorrect           = errors.New("incorrect verification code")
	ErrMissingLoginCredentials = errors.New("missing login credentials")
	ErrSmsRegTokenIncorrect    = errors.New("invalid registration token")
	ErrFileNotSupported        = errors.New("unsupported file type")
	ErrUserHasRole             = errors.New("user already has this role")
	ErrPostNotFound            = errors.New("post not found")
	ErrPostCommentNotFound     = errors.New("comment not found")
	ErrReactionTypeInvalid     = errors.New("unknown reaction type")
	ErrTargetTypeInvalid       = errors.New("unknown target type")
	ErrActionDuplicate         = errors.New("duplicate action")
	ErrCAProfileNotFound       = errors.New("accountant profile not found")
	ErrCAProfileExist          = errors.New("accountant profile already exists")
	ErrCANotVerified           = errors.New("accountant is not verified")
	ErrLeadNotFound            = errors.New("lead not found")
	ErrLeadClosed              = errors.New("lead is closed")
	ErrLeadNotViewed           = errors.New("lead has not been viewed")
	ErrNotLeadOwner            = errors.New("not the owner of this lead")
	ErrContactRequestExist     = errors.New("contact request already sent")
	ErrContactRequestNotFound  = errors.New("contact request not found")
	ErrInboxItemNotFound       = errors.New("notification not found")
	UnauthorizedError          = errors.New("permission denied")
	UnExpectedError            = errors.New("something went wrong, please retry later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserExist:               BadRequest,
	ErrUserPhoneNotFound:       NotFound,
	ErrUserPhoneExist:          BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrCodeIncorrect:           Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrSmsRegTokenIncorrect:    Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrUserHasRole:             BadRequest,
	ErrPostNotFound:            NotFound,
	ErrPostCommentNotFound:     NotFound,
	ErrReactionTypeInvalid:     BadRequest,
	ErrTargetTypeInvalid:       BadRequest,
	ErrActionDuplicate:         BadRequest,
	ErrCAProfileNotFound:       NotFound,
	ErrCAProfileExist:          BadRequest,
	ErrCANotVerified:           Unauthorized,
	ErrLeadNotFound:            NotFound,
	ErrLeadClosed:              BadRequest,
	ErrLeadNotViewed:           BadRequest,
	ErrNotLeadOwner:            Unauthorized,
	ErrContactRequestExist:     BadRequest,
	ErrContactRequestNotFound:  NotFound,
	ErrInboxItemNotFound:       NotFound,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
