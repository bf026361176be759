package service

import (
	"sort"
	"time"

	"github.com/ambegrouplimited/reminderd/internal/domain"
)

const dateLayout = "2006-01-02"

// ScheduleService derives reminder occurrences from editable schedule state
// and converts between summaries and the wire payload. It is side-effect
// free; "today" comes from the injected clock so generation is deterministic
// under test.
type ScheduleService struct {
	timezone *time.Location
	now      func() time.Time
}

func NewScheduleService(tz *time.Location) *ScheduleService {
	return &ScheduleService{
		timezone: tz,
		now:      time.Now,
	}
}

// today returns the current calendar date at midnight in the service
// timezone.
func (s *ScheduleService) today() time.Time {
	n := s.now().In(s.timezone)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.timezone)
}

// Preview returns the upcoming occurrences for the summary's active mode.
func (s *ScheduleService) Preview(sum domain.ScheduleSummary) []domain.Occurrence {
	switch sum.Mode {
	case domain.ModeManual:
		return GenerateManual(sum.Manual.Entries)
	case domain.ModeWeekly:
		return GenerateWeekly(sum.Weekly.Weekdays, sum.Weekly.Time, sum.Weekly.MaxReminders, sum.Tones, s.today())
	case domain.ModeCadence:
		if !sum.Cadence.FrequencyDays.Valid || !sum.Cadence.MaxReminders.Valid {
			return nil
		}
		return GenerateCadence(sum.Cadence.FrequencyDays.Value, sum.Cadence.StartDate,
			sum.Cadence.StartTime, sum.Cadence.MaxReminders.Value, sum.Tones, s.today())
	}
	return nil
}

// GenerateManual produces occurrences from manual entries: deduplicated by
// date, sorted ascending, tone taken from each entry.
func GenerateManual(entries []domain.ManualEntry) []domain.Occurrence {
	seen := make(map[string]bool, len(entries))
	unique := make([]domain.ManualEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		unique = append(unique, e)
	}
	// ISO dates sort chronologically as strings.
	sort.Slice(unique, func(i, j int) bool { return unique[i].Date < unique[j].Date })
	out := make([]domain.Occurrence, 0, len(unique))
	for _, e := range unique {
		out = append(out, domain.Occurrence{Date: e.Date, Time: e.Time, Tone: e.Tone})
	}
	return out
}

// GenerateWeekly scans forward day by day from today and emits an occurrence
// on every selected weekday until max occurrences have been produced. Tones
// cycle through the shared sequence by emission index. An empty (or entirely
// invalid) weekday set yields no occurrences.
func GenerateWeekly(weekdays []domain.Weekday, timeOfDay string, max int, tones []domain.Tone, today time.Time) []domain.Occurrence {
	if max <= 0 {
		return nil
	}
	set := make(map[domain.Weekday]bool, len(weekdays))
	for _, w := range weekdays {
		if w.Valid() {
			set[w] = true
		}
	}
	if len(set) == 0 {
		return nil
	}

	out := make([]domain.Occurrence, 0, max)
	day := today
	for len(out) < max {
		if set[domain.WeekdayFromTime(day.Weekday())] {
			out = append(out, domain.Occurrence{
				Date: day.Format(dateLayout),
				Time: timeOfDay,
				Tone: domain.ToneForOccurrence(tones, len(out)),
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// GenerateCadence emits max occurrences spaced frequencyDays apart, starting
// at startDate (falling back to today when absent or malformed). Callers keep
// frequencyDays >= 1; values below 1 yield no occurrences.
func GenerateCadence(frequencyDays int, startDate, startTime string, max int, tones []domain.Tone, today time.Time) []domain.Occurrence {
	if frequencyDays < 1 || max <= 0 {
		return nil
	}
	start := today
	if startDate != "" {
		if t, err := time.ParseInLocation(dateLayout, startDate, today.Location()); err == nil {
			start = t
		}
	}
	out := make([]domain.Occurrence, 0, max)
	for k := 0; k < max; k++ {
		d := start.AddDate(0, 0, k*frequencyDays)
		out = append(out, domain.Occurrence{
			Date: d.Format(dateLayout),
			Time: startTime,
			Tone: domain.ToneForOccurrence(tones, k),
		})
	}
	return out
}
