package domain

import "regexp"

const (
	MessageLoginSuccessful     = "Login successful."
	MessageMissingCredentials  = "Username and password must be provided."
	MessageMissingBaseURL      = "Base URL is not set. Please call SetBaseURL first."
	MessageMissingSolver       = "Captcha solver must be provided to solve captcha."
	MessageInvalidCaptchaCode  = "Invalid captcha code. Must be 4 digits."
	MessageInvalidCredentials  = "Invalid username or password."
	MessageLoginInconclusive   = "Login process completed without success or clear failure message."
	messageLoginAttemptsFailed = "Login failed after multiple attempts: "
)

// DefaultLoginPageMarker appears only on the CAS login page. A submission
// answered with that page was rejected.
const DefaultLoginPageMarker = "forget-password"

var captchaCodePattern = regexp.MustCompile(`^\d{4}$`)

// LoginResult is the outcome of a login flow. Expected authentication
// failures are reported here rather than as errors.
type LoginResult struct {
	Success bool
	Message string
}

func LoginSucceeded() LoginResult {
	return LoginResult{Success: true, Message: MessageLoginSuccessful}
}

func LoginFailed(message string) LoginResult {
	return LoginResult{Success: false, Message: message}
}

func LoginExhausted(cause string) LoginResult {
	return LoginFailed(messageLoginAttemptsFailed + cause)
}

func ValidCaptchaCode(code string) bool {
	return captchaCodePattern.MatchString(code)
}

// LoginAttempt is the protocol state of one pass through the CAS flow. It is
// discarded when the pass ends.
type LoginAttempt struct {
	Ticket  string
	Realm   string
	Captcha string
}
