package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OptionalInt is an integer that may be absent. It unmarshals from JSON
// numbers and from numeric strings; empty or non-numeric input leaves it
// unset rather than defaulting to zero, so a garbled frequency can never turn
// into a zero-frequency schedule downstream.
type OptionalInt struct {
	Value int
	Valid bool
}

// OptInt returns a set OptionalInt.
func OptInt(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// Ptr returns the value as *int, nil when unset.
func (o OptionalInt) Ptr() *int {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// OptIntFromPtr builds an OptionalInt from *int.
func OptIntFromPtr(p *int) OptionalInt {
	if p == nil {
		return OptionalInt{}
	}
	return OptInt(*p)
}

// CoerceInt parses s as an integer, returning an unset OptionalInt for empty
// or non-numeric input.
func CoerceInt(s string) OptionalInt {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptionalInt{}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return OptionalInt{}
	}
	return OptInt(v)
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*o = OptionalInt{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*o = OptionalInt{}
			return nil
		}
		*o = CoerceInt(s)
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		*o = OptionalInt{}
		return nil
	}
	*o = OptInt(v)
	return nil
}

// ReminderSchedulePayload is the canonical wire form consumed by the backend
// scheduler. It is a tagged union keyed by Mode; field names are a bit-exact
// contract and must not change.
type ReminderSchedulePayload struct {
	Mode ScheduleMode `json:"mode"`

	// ManualDates carries combined ISO-8601 date-times with local offset,
	// one per manual entry, sorted ascending.
	ManualDates []string `json:"manual_dates,omitempty"`

	WeeklyPattern *WeeklyPatternPayload `json:"weekly_pattern,omitempty"`
	Cadence       *CadencePayload       `json:"cadence,omitempty"`

	ToneSequence []Tone `json:"tone_sequence"`
	MaxReminders int    `json:"max_reminders,omitempty"`
}

// WeeklyPatternPayload is the weekly-mode arm of the payload. Weekdays keep
// the user's selection order; TimeOfDay is "HH:MM:SS".
type WeeklyPatternPayload struct {
	Weekdays  []Weekday `json:"weekdays"`
	TimeOfDay string    `json:"time_of_day"`
}

// CadencePayload is the cadence-mode arm of the payload. StartDate is
// "2006-01-02" and may be empty (backend falls back to the invoice due date);
// StartTime is "HH:MM:SS".
type CadencePayload struct {
	FrequencyDays *int   `json:"frequency_days,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	StartTime     string `json:"start_time"`
}

// ReminderScheduleSummaryValue is the persisted draft snapshot of a schedule
// summary, keyed by the active mode.
type ReminderScheduleSummaryValue struct {
	Mode          ScheduleMode    `json:"mode"`
	ManualEntries []ManualEntry   `json:"manual_entries,omitempty"`
	Weekly        *WeeklySummary  `json:"weekly_pattern,omitempty"`
	Cadence       *CadenceSummary `json:"cadence,omitempty"`
	ToneSequence  []Tone          `json:"tone_sequence,omitempty"`
}

// ToWireSummary dumps the active mode's shape. It backs both the live preview
// and the persisted draft snapshot.
func (s *ScheduleSummary) ToWireSummary() ReminderScheduleSummaryValue {
	v := ReminderScheduleSummaryValue{
		Mode:         s.Mode,
		ToneSequence: append([]Tone(nil), s.Tones...),
	}
	switch s.Mode {
	case ModeManual:
		v.ManualEntries = append([]ManualEntry(nil), s.Manual.Entries...)
	case ModeWeekly:
		w := s.Weekly
		w.Weekdays = append([]Weekday(nil), s.Weekly.Weekdays...)
		v.Weekly = &w
	case ModeCadence:
		c := s.Cadence
		v.Cadence = &c
	}
	return v
}

// SummaryFromWire hydrates editable state from a stored summary value.
func SummaryFromWire(v ReminderScheduleSummaryValue) ScheduleSummary {
	s := NewScheduleSummary(v.Mode)
	if len(v.ToneSequence) > 0 {
		s.Tones = append([]Tone(nil), v.ToneSequence...)
	}
	if len(v.ManualEntries) > 0 {
		s.Manual.Entries = append([]ManualEntry(nil), v.ManualEntries...)
	}
	if v.Weekly != nil {
		s.Weekly = *v.Weekly
		s.Weekly.Weekdays = append([]Weekday(nil), v.Weekly.Weekdays...)
	}
	if v.Cadence != nil {
		s.Cadence = *v.Cadence
	}
	return s
}
