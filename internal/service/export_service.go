package service

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/teambition/rrule-go"

	"github.com/ambegrouplimited/reminderd/internal/domain"
)

// CalendarPublisher pushes a built calendar to an external collection.
type CalendarPublisher interface {
	IsConfigured() bool
	PublishCalendar(ctx context.Context, uid string, cal *ical.Calendar) error
}

// ExportService renders an occurrence preview as an iCalendar document and
// optionally publishes it over CalDAV.
type ExportService struct {
	schedule  *ScheduleService
	publisher CalendarPublisher
	log       zerolog.Logger
}

func NewExportService(schedule *ScheduleService, publisher CalendarPublisher, log zerolog.Logger) *ExportService {
	return &ExportService{
		schedule:  schedule,
		publisher: publisher,
		log:       log,
	}
}

var rruleWeekdays = [7]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// BuildCalendar converts the summary into a VCALENDAR: one VEVENT per manual
// occurrence, or a single recurring VEVENT with an RRULE for weekly and
// cadence schedules.
func (s *ExportService) BuildCalendar(sum domain.ScheduleSummary) (*ical.Calendar, error) {
	occurrences := s.schedule.Preview(sum)
	if len(occurrences) == 0 {
		return nil, fmt.Errorf("schedule has no occurrences to export")
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//AmbeGroup//reminderd//EN")

	switch sum.Mode {
	case domain.ModeManual:
		for _, occ := range occurrences {
			ev, err := s.occurrenceEvent(occ, "")
			if err != nil {
				return nil, err
			}
			cal.Children = append(cal.Children, ev.Component)
		}
	case domain.ModeWeekly:
		var byDays []rrule.Weekday
		for _, w := range sum.Weekly.Weekdays {
			if w.Valid() {
				byDays = append(byDays, rruleWeekdays[w])
			}
		}
		opt := rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: byDays,
			Count:     sum.Weekly.MaxReminders,
		}
		ev, err := s.occurrenceEvent(occurrences[0], opt.RRuleString())
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, ev.Component)
	case domain.ModeCadence:
		opt := rrule.ROption{
			Freq:     rrule.DAILY,
			Interval: sum.Cadence.FrequencyDays.Value,
			Count:    len(occurrences),
		}
		ev, err := s.occurrenceEvent(occurrences[0], opt.RRuleString())
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	return cal, nil
}

// occurrenceEvent builds a VEVENT for one occurrence, with an optional
// recurrence rule.
func (s *ExportService) occurrenceEvent(occ domain.Occurrence, rule string) (*ical.Event, error) {
	start, err := time.ParseInLocation(dateLayout+" 15:04", occ.Date+" "+normalizeClock(occ.Time), s.schedule.timezone)
	if err != nil {
		return nil, fmt.Errorf("parse occurrence start: %w", err)
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uuid.NewString()+"@reminderd")
	ev.Props.SetText(ical.PropSummary, "Payment reminder")
	ev.Props.SetText(ical.PropDescription, fmt.Sprintf("Tone: %s", occ.Tone))
	ev.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(15*time.Minute).UTC())
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	if rule != "" {
		ev.Props.SetText(ical.PropRecurrenceRule, rule)
	}
	return ev, nil
}

// Publish builds the calendar and pushes it to the configured CalDAV
// collection under uid. A missing publisher configuration is a no-op.
func (s *ExportService) Publish(ctx context.Context, uid string, sum domain.ScheduleSummary) error {
	if s.publisher == nil || !s.publisher.IsConfigured() {
		return nil
	}
	cal, err := s.BuildCalendar(sum)
	if err != nil {
		return err
	}
	if err := s.publisher.PublishCalendar(ctx, uid, cal); err != nil {
		return fmt.Errorf("publish calendar: %w", err)
	}
	s.log.Info().Str("uid", uid).Msg("schedule published to calendar")
	return nil
}
