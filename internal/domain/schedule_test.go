package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleManualDate(t *testing.T) {
	s := NewScheduleSummary(ModeManual)

	s.ToggleManualDate("2025-04-05", "10:00")
	require.Len(t, s.Manual.Entries, 1)
	assert.Equal(t, "2025-04-05", s.Manual.Entries[0].Date)
	assert.Equal(t, ToneGentle, s.Manual.Entries[0].Tone)

	// Toggling the same date removes the entry instead of duplicating it.
	s.ToggleManualDate("2025-04-05", "10:00")
	assert.Empty(t, s.Manual.Entries)
}

func TestToggleManualDateKeepsOtherEntries(t *testing.T) {
	s := NewScheduleSummary(ModeManual)
	s.ToggleManualDate("2025-04-05", "10:00")
	s.ToggleManualDate("2025-04-08", "10:00")
	s.ToggleManualDate("2025-04-05", "10:00")

	require.Len(t, s.Manual.Entries, 1)
	assert.Equal(t, "2025-04-08", s.Manual.Entries[0].Date)
}

func TestSetModePreservesOtherModes(t *testing.T) {
	s := NewScheduleSummary(ModeWeekly)
	s.Weekly.Weekdays = []Weekday{WeekdayMonday}
	s.Weekly.Time = "09:00"
	s.Weekly.MaxReminders = 3

	s.SetMode(ModeCadence)
	s.Cadence.FrequencyDays = OptInt(7)

	s.SetMode(ModeWeekly)
	assert.Equal(t, []Weekday{WeekdayMonday}, s.Weekly.Weekdays)
	assert.Equal(t, "09:00", s.Weekly.Time)
	assert.True(t, s.Cadence.FrequencyDays.Valid)
}

func TestCanSubmit(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*ScheduleSummary)
		want bool
	}{
		{
			name: "manual with timed entry",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeManual
				s.Manual.Entries = []ManualEntry{{Date: "2025-04-05", Time: "10:00", Tone: ToneGentle}}
			},
			want: true,
		},
		{
			name: "manual with no entries",
			mod:  func(s *ScheduleSummary) { s.Mode = ModeManual },
			want: false,
		},
		{
			name: "manual entry missing time",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeManual
				s.Manual.Entries = []ManualEntry{
					{Date: "2025-04-05", Time: "10:00"},
					{Date: "2025-04-06"},
				}
			},
			want: false,
		},
		{
			name: "weekly with weekday and time",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeWeekly
				s.Weekly = WeeklySummary{Weekdays: []Weekday{WeekdayFriday}, Time: "09:00", MaxReminders: 2}
			},
			want: true,
		},
		{
			name: "weekly with zero weekdays",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeWeekly
				s.Weekly = WeeklySummary{Time: "09:00", MaxReminders: 5}
			},
			want: false,
		},
		{
			name: "weekly missing time",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeWeekly
				s.Weekly = WeeklySummary{Weekdays: []Weekday{WeekdayMonday}}
			},
			want: false,
		},
		{
			name: "cadence with frequency and start time",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeCadence
				s.Cadence = CadenceSummary{FrequencyDays: OptInt(4), StartTime: "08:30"}
			},
			want: true,
		},
		{
			name: "cadence with unset frequency",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeCadence
				s.Cadence = CadenceSummary{StartTime: "08:30"}
			},
			want: false,
		},
		{
			name: "cadence with zero frequency",
			mod: func(s *ScheduleSummary) {
				s.Mode = ModeCadence
				s.Cadence = CadenceSummary{FrequencyDays: OptInt(0), StartTime: "08:30"}
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduleSummary(ModeManual)
			tt.mod(&s)
			assert.Equal(t, tt.want, s.CanSubmit())
		})
	}
}

func TestSyncTonesTracksOccurrenceBound(t *testing.T) {
	s := NewScheduleSummary(ModeWeekly)
	s.Weekly.MaxReminders = 4
	s.Tones = []Tone{ToneFirm}

	s.SyncTones()
	assert.Equal(t, []Tone{ToneFirm, ToneGentle, ToneGentle, ToneGentle}, s.Tones)

	s.Weekly.MaxReminders = 2
	s.SyncTones()
	assert.Equal(t, []Tone{ToneFirm, ToneGentle}, s.Tones)

	// The bound never drops the sequence below one entry.
	s.Weekly.MaxReminders = 0
	s.SyncTones()
	assert.Equal(t, []Tone{ToneFirm}, s.Tones)
}

func TestWeekdayConversion(t *testing.T) {
	assert.Equal(t, time.Monday, WeekdayMonday.Time())
	assert.Equal(t, time.Sunday, WeekdaySunday.Time())
	assert.Equal(t, WeekdayMonday, WeekdayFromTime(time.Monday))
	assert.Equal(t, WeekdaySunday, WeekdayFromTime(time.Sunday))

	for w := WeekdayMonday; w <= WeekdaySunday; w++ {
		assert.Equal(t, w, WeekdayFromTime(w.Time()))
	}
}

func TestSortedManualEntries(t *testing.T) {
	s := NewScheduleSummary(ModeManual)
	s.Manual.Entries = []ManualEntry{
		{Date: "2025-04-09", Time: "10:00", Tone: ToneFirm},
		{Date: "2025-04-05", Time: "09:00", Tone: ToneGentle},
		{Date: "2025-04-09", Time: "12:00", Tone: ToneNeutral},
	}

	got := s.SortedManualEntries()
	require.Len(t, got, 2)
	assert.Equal(t, "2025-04-05", got[0].Date)
	assert.Equal(t, "2025-04-09", got[1].Date)
	// First entry wins on duplicate dates.
	assert.Equal(t, ToneFirm, got[1].Tone)
	// Stored order untouched.
	assert.Len(t, s.Manual.Entries, 3)
}
