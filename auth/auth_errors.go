package auth

import "errors"

// Flow rejection causes. Each carries the exact user-facing text for its
// terminal 400 response; callers match with errors.Is.
var (
	AlreadyAuthorizedErr = errors.New("already authorized")
	NoStateErr           = errors.New("no state received")
	SessionExpiredErr    = errors.New("session expired")
	InvalidStateErr      = errors.New("invalid state")
	MissingCodeErr       = errors.New("missing code")
	TokenExchangeErr     = errors.New("token error")
	UserFetchErr         = errors.New("user fetch error")
)

var rejections = []error{
	NoStateErr,
	SessionExpiredErr,
	InvalidStateErr,
	MissingCodeErr,
	TokenExchangeErr,
	UserFetchErr,
}

// RejectionMessage returns the user-facing text for a callback rejection and
// whether err is one. Unexpected faults return false and must be reported as
// the generic "callback error" instead of leaking detail to the browser.
func RejectionMessage(err error) (string, bool) {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return rejection.Error(), true
		}
	}
	return "", false
}
