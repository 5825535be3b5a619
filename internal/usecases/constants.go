package usecases

import "time"

// Verification email
const (
	DefaultVerificationTokenTTL = 15 * time.Minute
	VerificationEmailSubject    = "Url shortener app: Verify your email"
	VerifyEmailPath             = "/auth/verify-email/"
)

// Metric outcomes
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)
