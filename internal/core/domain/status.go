package domain

import (
	"fmt"
	"strings"
)

// ApplicationStatus is the pipeline stage of an application.
// Values serialise as their symbolic name, never as an ordinal.
type ApplicationStatus string

// Application statuses, in pipeline order.
const (
	StatusDraft     ApplicationStatus = "DRAFT"
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusScreening ApplicationStatus = "SCREENING"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffer     ApplicationStatus = "OFFER"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusAccepted  ApplicationStatus = "ACCEPTED"
	StatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

// ApplicationStatuses returns every status in pipeline order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusDraft, StatusApplied, StatusScreening, StatusInterview,
		StatusOffer, StatusRejected, StatusAccepted, StatusWithdrawn,
	}
}

// IsValid returns true if the status is recognised.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusApplied, StatusScreening, StatusInterview,
		StatusOffer, StatusRejected, StatusAccepted, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// String returns the symbolic name.
func (s ApplicationStatus) String() string {
	return string(s)
}

// ParseApplicationStatus parses a symbolic status name, ignoring case.
func ParseApplicationStatus(name string) (ApplicationStatus, error) {
	s := ApplicationStatus(strings.ToUpper(strings.TrimSpace(name)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown application status %q", ErrInvalidInput, name)
	}
	return s, nil
}

// InterviewMode describes how an interview is held.
type InterviewMode string

// Interview modes.
const (
	ModeInPerson InterviewMode = "IN_PERSON"
	ModeVideo    InterviewMode = "VIDEO"
	ModePhone    InterviewMode = "PHONE"
	ModeOther    InterviewMode = "OTHER"
)

// IsValid returns true if the mode is recognised.
func (m InterviewMode) IsValid() bool {
	switch m {
	case ModeInPerson, ModeVideo, ModePhone, ModeOther:
		return true
	default:
		return false
	}
}

// String returns the symbolic name.
func (m InterviewMode) String() string {
	return string(m)
}

// ParseInterviewMode parses a symbolic mode name. Dashes are accepted in
// place of underscores so "in-person" parses as IN_PERSON.
func ParseInterviewMode(name string) (InterviewMode, error) {
	normalised := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "-", "_")
	m := InterviewMode(normalised)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: unknown interview mode %q", ErrInvalidInput, name)
	}
	return m, nil
}
