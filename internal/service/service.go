// Package service provides the business logic for the release version API
package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAggregationFailed is returned when an aggregation run cannot produce a complete result
	ErrAggregationFailed = errors.New("aggregation failed")
	// ErrNoExtractors is returned by readiness checks when nothing is registered
	ErrNoExtractors = errors.New("no extractors registered")
	// ErrSoftwareNotFound is returned when no extractor is registered under a name
	ErrSoftwareNotFound = errors.New("software not found")
)

// AggregateResult maps each software name to its latest version, nil when no
// entry qualified. It serializes to {"name": "1.2.3" | null}.
type AggregateResult map[string]*string

// FailurePolicy decides what a fetch error of one extractor does to the aggregate
type FailurePolicy string

const (
	// FailurePolicyFail fails the whole aggregation on the first fetch error
	FailurePolicyFail FailurePolicy = "fail"
	// FailurePolicyAbsent logs the error and reports that software as null
	FailurePolicyAbsent FailurePolicy = "absent"
)

// ParseFailurePolicy converts a configuration value into a FailurePolicy.
// An empty value selects FailurePolicyFail.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", FailurePolicyFail:
		return FailurePolicyFail, nil
	case FailurePolicyAbsent:
		return FailurePolicyAbsent, nil
	default:
		return "", fmt.Errorf("unsupported failure policy %q (expected %s or %s)",
			s, FailurePolicyFail, FailurePolicyAbsent)
	}
}

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go Service

// Service defines the interface for release version aggregation
type Service interface {
	// CheckReadiness checks if the service is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// MostRecent runs every extractor and returns the latest version per software
	MostRecent(ctx context.Context) (AggregateResult, error)

	// MostRecentFor runs the extractor of a single software. The version is nil
	// when no entry qualified; an unregistered name yields ErrSoftwareNotFound.
	MostRecentFor(ctx context.Context, softwareName string) (*string, error)

	// SoftwareNames returns the names reported by MostRecent, in registration order
	SoftwareNames() []string
}
