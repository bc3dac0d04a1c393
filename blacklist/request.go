// Package blacklist looks up user identifiers in the cloud blacklist API and turns the upstream
// answer into a display ready report.
//
// A lookup goes through four steps: the target is resolved from the incoming message (Resolve),
// the upstream calls are made (Lookup, using a Fetcher), the blacklist payload is normalized
// (Normalize) and the resulting Report is rendered (Format). Failures along the way are
// reported as *Error values whose Kind maps to a single chat reply (Message).
package blacklist

import (
	"strings"

	"github.com/pkg/errors"
)

// LookupRequest holds what identifies a single lookup
type LookupRequest struct {
	TargetID string
	APIKey   string
}

// NewLookupRequest validates and returns a LookupRequest. A blank api key is reported before a
// blank target since nothing can be looked up without it
func NewLookupRequest(targetID string, apiKey string) (req LookupRequest, err error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return req, newError(KindConfigurationMissing, errors.New("api key not configured"))
	}

	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return req, newError(KindEmptyInput, errors.New("no target identifier"))
	}

	return LookupRequest{TargetID: targetID, APIKey: apiKey}, nil
}
