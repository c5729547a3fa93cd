package domain

// GuardResult is the outcome of a request guard check (rate limiter).
type GuardResult struct {
	Allowed bool
	Reason  string
	Guard   string
}
