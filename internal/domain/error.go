package domain

import "errors"

var (
	// ErrFlagSourceFailure means a feature-flag source could not produce a mapping.
	ErrFlagSourceFailure = errors.New("feature flag source failure")

	// ErrNoFlagSources means no feature-flag source is configured.
	ErrNoFlagSources = errors.New("no feature flag sources configured")
)
