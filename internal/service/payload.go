package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/ambegrouplimited/reminderd/internal/domain"
)

// fallbackTime is used when a manual entry's time of day is missing or
// malformed at encoding time. A submittable schedule beats strict validation
// here.
const fallbackTime = "09:00"

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// normalizeClock returns t when it is a well-formed "HH:MM", otherwise the
// fallback.
func normalizeClock(t string) string {
	t = strings.TrimSpace(t)
	if clockRe.MatchString(t) {
		return t
	}
	return fallbackTime
}

// ensureSeconds normalizes "HH:MM" to "HH:MM:SS" for the wire.
func ensureSeconds(t string) string {
	if strings.Count(t, ":") == 1 {
		return t + ":00"
	}
	return t
}

// trimSeconds normalizes "HH:MM:SS" back to "HH:MM" for display.
func trimSeconds(t string) string {
	if strings.Count(t, ":") == 2 {
		return t[:strings.LastIndex(t, ":")]
	}
	return t
}

// BuildSchedulePayload serializes the summary's active mode into the wire
// payload. A manual schedule with no entries yields nil ("no schedule yet"),
// never an empty manual_dates array.
func (s *ScheduleService) BuildSchedulePayload(sum domain.ScheduleSummary) *domain.ReminderSchedulePayload {
	switch sum.Mode {
	case domain.ModeManual:
		entries := sum.SortedManualEntries()
		if len(entries) == 0 {
			return nil
		}
		p := &domain.ReminderSchedulePayload{
			Mode:         domain.ModeManual,
			ManualDates:  make([]string, 0, len(entries)),
			ToneSequence: make([]domain.Tone, 0, len(entries)),
		}
		for _, e := range entries {
			p.ManualDates = append(p.ManualDates, s.combineDateTime(e.Date, e.Time))
			p.ToneSequence = append(p.ToneSequence, e.Tone)
		}
		return p

	case domain.ModeWeekly:
		return &domain.ReminderSchedulePayload{
			Mode: domain.ModeWeekly,
			WeeklyPattern: &domain.WeeklyPatternPayload{
				// Selection order is part of the contract; do not re-sort.
				Weekdays:  append([]domain.Weekday(nil), sum.Weekly.Weekdays...),
				TimeOfDay: ensureSeconds(sum.Weekly.Time),
			},
			ToneSequence: append([]domain.Tone(nil), sum.Tones...),
			MaxReminders: sum.Weekly.MaxReminders,
		}

	case domain.ModeCadence:
		p := &domain.ReminderSchedulePayload{
			Mode: domain.ModeCadence,
			Cadence: &domain.CadencePayload{
				FrequencyDays: sum.Cadence.FrequencyDays.Ptr(),
				StartDate:     sum.Cadence.StartDate,
				StartTime:     ensureSeconds(sum.Cadence.StartTime),
			},
			ToneSequence: append([]domain.Tone(nil), sum.Tones...),
		}
		if sum.Cadence.MaxReminders.Valid {
			p.MaxReminders = sum.Cadence.MaxReminders.Value
		}
		return p
	}
	return nil
}

// combineDateTime joins a calendar date and an "HH:MM" time into an ISO-8601
// date-time carrying the service timezone's offset.
func (s *ScheduleService) combineDateTime(date, clock string) string {
	clock = normalizeClock(clock)
	d, err := time.ParseInLocation(dateLayout, date, s.timezone)
	if err != nil {
		d = s.today()
	}
	hh := int(clock[0]-'0')*10 + int(clock[1]-'0')
	mm := int(clock[3]-'0')*10 + int(clock[4]-'0')
	return time.Date(d.Year(), d.Month(), d.Day(), hh, mm, 0, 0, s.timezone).Format(time.RFC3339)
}

// SchedulePayloadToSummary decodes a stored payload back into editable state.
// The inverse of BuildSchedulePayload modulo seconds normalization and
// manual-tone backfill when the stored sequence was shorter than the entry
// list.
func (s *ScheduleService) SchedulePayloadToSummary(p *domain.ReminderSchedulePayload) (domain.ScheduleMode, domain.ScheduleSummary) {
	if p == nil {
		return domain.ModeManual, domain.NewScheduleSummary(domain.ModeManual)
	}
	sum := domain.NewScheduleSummary(p.Mode)
	if len(p.ToneSequence) > 0 {
		sum.Tones = append([]domain.Tone(nil), p.ToneSequence...)
	}

	switch p.Mode {
	case domain.ModeManual:
		sum.Manual.Entries = make([]domain.ManualEntry, 0, len(p.ManualDates))
		for i, iso := range p.ManualDates {
			date, clock := s.splitDateTime(iso)
			sum.Manual.Entries = append(sum.Manual.Entries, domain.ManualEntry{
				Date: date,
				Time: clock,
				Tone: manualToneAt(p.ToneSequence, i),
			})
		}
	case domain.ModeWeekly:
		if p.WeeklyPattern != nil {
			sum.Weekly = domain.WeeklySummary{
				Weekdays:     append([]domain.Weekday(nil), p.WeeklyPattern.Weekdays...),
				Time:         trimSeconds(p.WeeklyPattern.TimeOfDay),
				MaxReminders: p.MaxReminders,
			}
		}
	case domain.ModeCadence:
		if p.Cadence != nil {
			sum.Cadence = domain.CadenceSummary{
				FrequencyDays: domain.OptIntFromPtr(p.Cadence.FrequencyDays),
				StartDate:     p.Cadence.StartDate,
				StartTime:     trimSeconds(p.Cadence.StartTime),
			}
			if p.MaxReminders > 0 {
				sum.Cadence.MaxReminders = domain.OptInt(p.MaxReminders)
			}
		}
	}
	return p.Mode, sum
}

// manualToneAt resolves the tone for the i-th manual entry: direct positional
// lookup, cyclical when the sequence is shorter, gentle when it is empty.
func manualToneAt(seq []domain.Tone, i int) domain.Tone {
	if i < len(seq) {
		return seq[i]
	}
	if len(seq) > 0 {
		return seq[i%len(seq)]
	}
	return domain.ToneGentle
}

// splitDateTime decodes an ISO-8601 date-time into separate date and "HH:MM"
// components in the service timezone.
func (s *ScheduleService) splitDateTime(iso string) (string, string) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Tolerate date-only values from older clients.
		if d, derr := time.ParseInLocation(dateLayout, iso, s.timezone); derr == nil {
			return d.Format(dateLayout), fallbackTime
		}
		return "", fallbackTime
	}
	local := t.In(s.timezone)
	return local.Format(dateLayout), local.Format("15:04")
}
