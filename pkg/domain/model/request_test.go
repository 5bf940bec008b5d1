package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
)

func validForm() *model.RequestForm {
	return &model.RequestForm{
		EngagementName: "Sculpture Tour",
		RequesterName:  "Alex Doe",
		Email:          "alex@example.org",
		Department:     "Education",
		EventDate:      "2026-09-12",
		EventHour:      "14",
		EventMinute:    "30",
		EventDuration:  "2 hours",
	}
}

func TestRequestForm_Valid(t *testing.T) {
	gt.NoError(t, validForm().Validate())
}

func TestRequestForm_MissingFields(t *testing.T) {
	cases := map[string]func(*model.RequestForm){
		"engagement name": func(f *model.RequestForm) { f.EngagementName = "" },
		"requester name":  func(f *model.RequestForm) { f.RequesterName = "  " },
		"email":           func(f *model.RequestForm) { f.Email = "" },
		"department":      func(f *model.RequestForm) { f.Department = "" },
		"event date":      func(f *model.RequestForm) { f.EventDate = "" },
		"event duration":  func(f *model.RequestForm) { f.EventDuration = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			mutate(f)
			gt.Error(t, f.Validate()).Is(model.ErrMissingField)
		})
	}
}

func TestRequestForm_EmailValidation(t *testing.T) {
	f := validForm()

	// Domain without a TLD is rejected.
	f.Email = "a@b"
	gt.Error(t, f.Validate()).Is(model.ErrInvalidEmail)

	f.Email = "a b@example.org"
	gt.Error(t, f.Validate()).Is(model.ErrInvalidEmail)

	f.Email = "a@b.c"
	gt.NoError(t, f.Validate())
}

func TestRequestForm_EventTime(t *testing.T) {
	f := validForm()

	at, err := f.EventTime(time.UTC)
	gt.NoError(t, err).Required()
	gt.Value(t, at).Equal(time.Date(2026, 9, 12, 14, 30, 0, 0, time.UTC))

	f.EventHour = "24"
	gt.Error(t, f.Validate()).Is(model.ErrInvalidDate)

	f.EventHour = "14"
	f.EventMinute = "60"
	gt.Error(t, f.Validate()).Is(model.ErrInvalidDate)

	f.EventMinute = "30"
	f.EventDate = "12/09/2026"
	gt.Error(t, f.Validate()).Is(model.ErrInvalidDate)
}

func TestNewDateValue_LocalDateUTCTime(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2026, 9, 12, 1, 30, 0, 0, loc)

	v := model.NewDateValue(at)
	gt.Value(t, v.Date).Equal("2026-09-12")
	// 01:30 at UTC+9 is 16:30 the previous day in UTC.
	gt.Value(t, v.Time).Equal("16:30:00")
}
