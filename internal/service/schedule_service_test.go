package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambegrouplimited/reminderd/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateManual(t *testing.T) {
	entries := []domain.ManualEntry{
		{Date: "2025-04-09", Time: "10:00", Tone: domain.ToneFirm},
		{Date: "2025-04-05", Time: "09:00", Tone: domain.ToneGentle},
		{Date: "2025-04-09", Time: "12:00", Tone: domain.ToneNeutral},
	}

	got := GenerateManual(entries)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Occurrence{Date: "2025-04-05", Time: "09:00", Tone: domain.ToneGentle}, got[0])
	assert.Equal(t, domain.Occurrence{Date: "2025-04-09", Time: "10:00", Tone: domain.ToneFirm}, got[1])
}

func TestGenerateManualEmpty(t *testing.T) {
	assert.Empty(t, GenerateManual(nil))
}

func TestGenerateWeeklyBound(t *testing.T) {
	// 2025-04-07 is a Monday.
	today := date(2025, time.April, 7)
	tones := []domain.Tone{domain.ToneGentle, domain.ToneFirm}

	got := GenerateWeekly([]domain.Weekday{domain.WeekdayMonday, domain.WeekdayWednesday}, "09:00", 5, tones, today)
	require.Len(t, got, 5)

	wantDates := []string{"2025-04-07", "2025-04-09", "2025-04-14", "2025-04-16", "2025-04-21"}
	for i, occ := range got {
		assert.Equal(t, wantDates[i], occ.Date)
		assert.Equal(t, "09:00", occ.Time)
		assert.Equal(t, domain.ToneForOccurrence(tones, i), occ.Tone)
	}
}

func TestGenerateWeeklyEmptyWeekdaySet(t *testing.T) {
	today := date(2025, time.April, 7)
	assert.Empty(t, GenerateWeekly(nil, "09:00", 5, nil, today))
	assert.Empty(t, GenerateWeekly([]domain.Weekday{domain.Weekday(9)}, "09:00", 5, nil, today))
}

func TestGenerateWeeklyMonthRollover(t *testing.T) {
	// 2025-01-30 is a Thursday; the next Friday is Jan 31, then Feb 7.
	today := date(2025, time.January, 30)

	got := GenerateWeekly([]domain.Weekday{domain.WeekdayFriday}, "12:00", 2, nil, today)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-31", got[0].Date)
	assert.Equal(t, "2025-02-07", got[1].Date)
}

func TestGenerateCadenceArithmetic(t *testing.T) {
	today := date(2025, time.April, 1)
	tones := []domain.Tone{domain.ToneGentle}

	got := GenerateCadence(4, "2025-04-05", "08:30", 3, tones, today)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-04-05", got[0].Date)
	assert.Equal(t, "2025-04-09", got[1].Date)
	assert.Equal(t, "2025-04-13", got[2].Date)
	for _, occ := range got {
		assert.Equal(t, "08:30", occ.Time)
		assert.Equal(t, domain.ToneGentle, occ.Tone)
	}
}

func TestGenerateCadenceYearRollover(t *testing.T) {
	today := date(2025, time.December, 1)

	got := GenerateCadence(3, "2025-12-30", "09:00", 2, nil, today)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-12-30", got[0].Date)
	assert.Equal(t, "2026-01-02", got[1].Date)
}

func TestGenerateCadenceStartFallsBackToToday(t *testing.T) {
	today := date(2025, time.April, 5)

	got := GenerateCadence(7, "", "09:00", 2, nil, today)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-04-05", got[0].Date)
	assert.Equal(t, "2025-04-12", got[1].Date)
}

func TestGenerateCadenceRejectsBadInput(t *testing.T) {
	today := date(2025, time.April, 5)
	assert.Empty(t, GenerateCadence(0, "2025-04-05", "09:00", 3, nil, today))
	assert.Empty(t, GenerateCadence(4, "2025-04-05", "09:00", 0, nil, today))
}

func TestPreviewUsesInjectedClock(t *testing.T) {
	svc := NewScheduleService(time.UTC)
	svc.now = func() time.Time { return time.Date(2025, time.April, 7, 15, 30, 0, 0, time.UTC) }

	sum := domain.NewScheduleSummary(domain.ModeWeekly)
	sum.Weekly = domain.WeeklySummary{
		Weekdays:     []domain.Weekday{domain.WeekdayMonday},
		Time:         "10:00",
		MaxReminders: 1,
	}

	got := svc.Preview(sum)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-04-07", got[0].Date)
}

func TestPreviewCadenceUnsetFrequency(t *testing.T) {
	svc := NewScheduleService(time.UTC)

	sum := domain.NewScheduleSummary(domain.ModeCadence)
	sum.Cadence = domain.CadenceSummary{StartTime: "09:00", MaxReminders: domain.OptInt(3)}

	assert.Empty(t, svc.Preview(sum))
}
