package enums

import (
	"fmt"
	"strings"
)

// RequestStatus tracks where a purchase request sits in its lifecycle. Any
// status may move to any other status, including itself; the workflow is a
// complete graph rather than a directed progression.
type RequestStatus string

const (
	RequestStatusInProcess RequestStatus = "In-Process"
	RequestStatusApproved  RequestStatus = "Approved"
	RequestStatusRejected  RequestStatus = "Rejected"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusInProcess,
	RequestStatusApproved,
	RequestStatusRejected,
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}

// RequestStatusChoices returns the allowed values for user-facing messages.
func RequestStatusChoices() string {
	parts := make([]string, 0, len(validRequestStatuses))
	for _, candidate := range validRequestStatuses {
		parts = append(parts, string(candidate))
	}
	return strings.Join(parts, ", ")
}
