package stats

import "errors"

var (
	// ErrDomain marks invalid or degenerate numeric input: empty samples,
	// out-of-range rates or alpha, or an effect size that leaves nothing to detect.
	ErrDomain = errors.New("domain error")

	// ErrConfiguration marks a calculation requested without the parameter it needs.
	ErrConfiguration = errors.New("configuration error")
)
