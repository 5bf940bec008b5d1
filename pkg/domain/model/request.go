package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Request validation errors
var (
	ErrMissingField = goerr.New("required field is missing")
	ErrInvalidEmail = goerr.New("invalid email address")
	ErrInvalidDate  = goerr.New("invalid event date")
)

// emailPattern requires a local part, a domain, and a top-level domain;
// "a@b" is rejected, "a@b.c" is accepted.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RequestForm holds the user-entered fields of an engagement request. The
// event timestamp is entered as separate date/hour/minute inputs and
// composed at submission time.
type RequestForm struct {
	EngagementName string
	RequesterName  string
	Email          string
	Department     string
	EventDate      string // YYYY-MM-DD
	EventHour      string // HH, 24h
	EventMinute    string // MM
	EventDuration  string
	Description    string
}

// Validate checks required-field presence and email well-formedness. It runs
// before any network call; an invalid form never reaches the remote service.
func (f *RequestForm) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"engagement_name", f.EngagementName},
		{"requester_name", f.RequesterName},
		{"email", f.Email},
		{"department", f.Department},
		{"event_date", f.EventDate},
		{"event_hour", f.EventHour},
		{"event_minute", f.EventMinute},
		{"event_duration", f.EventDuration},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return goerr.Wrap(ErrMissingField, "request form is incomplete", goerr.V("field", field.name))
		}
	}

	if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
		return goerr.Wrap(ErrInvalidEmail, "request form is invalid", goerr.V("email", f.Email))
	}

	if _, err := f.EventTime(time.Local); err != nil {
		return err
	}

	return nil
}

// EventTime composes the event timestamp from the separate date, hour and
// minute inputs, interpreted in the given location.
func (f *RequestForm) EventTime(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(f.EventDate), loc)
	if err != nil {
		return time.Time{}, goerr.Wrap(ErrInvalidDate, "cannot parse event date", goerr.V("date", f.EventDate))
	}

	hour, err := strconv.Atoi(strings.TrimSpace(f.EventHour))
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, goerr.Wrap(ErrInvalidDate, "cannot parse event hour", goerr.V("hour", f.EventHour))
	}
	minute, err := strconv.Atoi(strings.TrimSpace(f.EventMinute))
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, goerr.Wrap(ErrInvalidDate, "cannot parse event minute", goerr.V("minute", f.EventMinute))
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}

// DateValue is the remote service's date column payload: the date in the
// submitter's local zone, the time of day in UTC.
type DateValue struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// NewDateValue splits a timestamp into the remote system's expected
// local-date-and-UTC-time form.
func NewDateValue(t time.Time) DateValue {
	utc := t.UTC()
	return DateValue{
		Date: t.Format("2006-01-02"),
		Time: fmt.Sprintf("%02d:%02d:%02d", utc.Hour(), utc.Minute(), utc.Second()),
	}
}

// EmailValue is the remote service's email column payload.
type EmailValue struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

// StatusValue is the remote service's status column payload.
type StatusValue struct {
	Label string `json:"label"`
}

// DropdownValue is the remote service's dropdown column payload.
type DropdownValue struct {
	Labels []string `json:"labels"`
}
