package services

import "errors"

// Sentinel errors for the order/referral/payment flow. Handlers map these to
// the HTTP taxonomy: not-found errors to 404, conflicts and validation
// failures to 400, everything else to 500.
var (
	ErrProgramNotFound   = errors.New("program not found or inactive")
	ErrOrderNotFound     = errors.New("order not found")
	ErrReferralNotFound  = errors.New("invalid or expired referral code")
	ErrAffiliateNotFound = errors.New("no affiliate account for this user")
	ErrDuplicateOrder    = errors.New("an order for this program already exists")
	ErrReferralExists    = errors.New("a referral for this email already exists")
	ErrAffiliateExists   = errors.New("user already has an affiliate account")
	ErrInvalidSignature  = errors.New("payment signature verification failed")
)
