package domain

import (
	"sort"
	"time"
)

// ScheduleMode selects which of the three schedule shapes is active.
type ScheduleMode string

const (
	ModeManual  ScheduleMode = "manual"
	ModeWeekly  ScheduleMode = "weekly"
	ModeCadence ScheduleMode = "cadence"
)

// ValidMode reports whether s is a known schedule mode.
func ValidMode(s string) bool {
	switch ScheduleMode(s) {
	case ModeManual, ModeWeekly, ModeCadence:
		return true
	}
	return false
}

// Weekday is the canonical weekday ordinal (0 = Monday .. 6 = Sunday). This is
// the only numbering used in the domain and on the wire; conversion to Go's
// Sunday-based numbering happens at the time package boundary.
type Weekday int

const (
	WeekdayMonday Weekday = iota
	WeekdayTuesday
	WeekdayWednesday
	WeekdayThursday
	WeekdayFriday
	WeekdaySaturday
	WeekdaySunday
)

// Valid reports whether w is in the 0..6 range.
func (w Weekday) Valid() bool {
	return w >= WeekdayMonday && w <= WeekdaySunday
}

// Time converts w to Go's Sunday-based time.Weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

// WeekdayFromTime converts Go's Sunday-based numbering to the canonical
// Monday-based ordinal.
func WeekdayFromTime(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// ManualEntry is one user-picked delivery: a calendar date ("2006-01-02"), a
// time of day ("HH:MM") and an explicit tone. Manual tones are per entry, not
// derived from the shared tone sequence.
type ManualEntry struct {
	Date string `json:"date"`
	Time string `json:"time"`
	Tone Tone   `json:"tone"`
}

// ManualSummary holds the manual-mode editing state.
type ManualSummary struct {
	Entries []ManualEntry `json:"entries"`
}

// WeeklySummary holds the weekly-pattern editing state. Weekdays keep the
// order the user selected them in.
type WeeklySummary struct {
	Weekdays     []Weekday `json:"weekdays"`
	Time         string    `json:"time_of_day"`
	MaxReminders int       `json:"max_reminders"`
}

// CadenceSummary holds the fixed-interval editing state. FrequencyDays and
// MaxReminders stay unset (not zero) when the user input was not numeric.
type CadenceSummary struct {
	FrequencyDays OptionalInt `json:"frequency_days"`
	StartDate     string      `json:"start_date,omitempty"`
	StartTime     string      `json:"start_time"`
	MaxReminders  OptionalInt `json:"max_reminders"`
}

// ScheduleSummary is the editable schedule state. Exactly one mode is active,
// but switching modes keeps the other shapes' state so the user can toggle
// back and forth without losing edits.
type ScheduleSummary struct {
	Mode    ScheduleMode
	Manual  ManualSummary
	Weekly  WeeklySummary
	Cadence CadenceSummary

	// Tones is the shared positional tone sequence used by weekly and
	// cadence occurrences. Manual entries carry their own tone.
	Tones []Tone
}

// NewScheduleSummary returns a summary in the given mode with a single-entry
// tone sequence.
func NewScheduleSummary(mode ScheduleMode) ScheduleSummary {
	return ScheduleSummary{
		Mode:  mode,
		Tones: []Tone{ToneGentle},
	}
}

// SetMode switches the active mode without clearing the other modes' state.
func (s *ScheduleSummary) SetMode(mode ScheduleMode) {
	s.Mode = mode
}

// ToggleManualDate adds a manual entry for date, or removes the existing one
// if the date is already selected. At most one entry exists per calendar date.
func (s *ScheduleSummary) ToggleManualDate(date, defaultTime string) {
	for i, e := range s.Manual.Entries {
		if e.Date == date {
			s.Manual.Entries = append(s.Manual.Entries[:i], s.Manual.Entries[i+1:]...)
			return
		}
	}
	s.Manual.Entries = append(s.Manual.Entries, ManualEntry{
		Date: date,
		Time: defaultTime,
		Tone: ToneGentle,
	})
}

// SetManualTime sets the time of day for the entry at date, if present.
func (s *ScheduleSummary) SetManualTime(date, timeOfDay string) {
	for i := range s.Manual.Entries {
		if s.Manual.Entries[i].Date == date {
			s.Manual.Entries[i].Time = timeOfDay
			return
		}
	}
}

// SetManualTone sets the tone for the entry at date, if present.
func (s *ScheduleSummary) SetManualTone(date string, tone Tone) {
	for i := range s.Manual.Entries {
		if s.Manual.Entries[i].Date == date {
			s.Manual.Entries[i].Tone = tone
			return
		}
	}
}

// SetToneAt sets the shared tone sequence entry at index i.
func (s *ScheduleSummary) SetToneAt(i int, tone Tone) {
	if i >= 0 && i < len(s.Tones) {
		s.Tones[i] = tone
	}
}

// OccurrenceBound returns how many occurrences the active mode produces at
// most: the entry count for manual mode, MaxReminders otherwise.
func (s *ScheduleSummary) OccurrenceBound() int {
	switch s.Mode {
	case ModeManual:
		return len(s.Manual.Entries)
	case ModeWeekly:
		return s.Weekly.MaxReminders
	case ModeCadence:
		if s.Cadence.MaxReminders.Valid {
			return s.Cadence.MaxReminders.Value
		}
	}
	return 0
}

// SyncTones resizes the shared tone sequence to track the occurrence bound.
// The sequence length follows the bound, never the other way around, and is
// clamped here to at least one entry.
func (s *ScheduleSummary) SyncTones() {
	target := s.OccurrenceBound()
	if target < 1 {
		target = 1
	}
	s.Tones = ResizeToneSequence(s.Tones, target)
}

// CanSubmit is the single source of truth for whether the schedule may be
// submitted. Both the editing surface and the submission path consult it.
func (s *ScheduleSummary) CanSubmit() bool {
	switch s.Mode {
	case ModeManual:
		if len(s.Manual.Entries) == 0 {
			return false
		}
		for _, e := range s.Manual.Entries {
			if e.Time == "" {
				return false
			}
		}
		return true
	case ModeWeekly:
		return len(s.Weekly.Weekdays) > 0 && s.Weekly.Time != ""
	case ModeCadence:
		return s.Cadence.FrequencyDays.Valid &&
			s.Cadence.FrequencyDays.Value > 0 &&
			s.Cadence.StartTime != ""
	}
	return false
}

// SortedManualEntries returns the manual entries deduplicated by date and
// sorted ascending. The stored order (as entered) is left untouched.
func (s *ScheduleSummary) SortedManualEntries() []ManualEntry {
	seen := make(map[string]bool, len(s.Manual.Entries))
	out := make([]ManualEntry, 0, len(s.Manual.Entries))
	for _, e := range s.Manual.Entries {
		if seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
