package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"huntersledger/internal/model"
)

// ContentType is the MIME type of a serialized document.
const ContentType = "text/calendar"

const (
	DefaultProductID    = "-//Hunter's Ledger//Hunt Session//EN"
	DefaultUIDDomain    = "havenshelper"
	DefaultReminderLead = 15 * time.Minute
)

// AlarmText is the default reminder text for a given lead time, e.g.
// "Game session starts in 15 minutes".
func AlarmText(lead time.Duration) string {
	return fmt.Sprintf("Game session starts in %d minutes", int(lead/time.Minute))
}

// Options configures a Serializer. Zero fields take the Default* values;
// an empty AlarmText follows the reminder lead.
type Options struct {
	ProductID    string
	UIDDomain    string
	AlarmText    string
	ReminderLead time.Duration

	// Now and NewUID are overridable for tests; they default to the
	// wall clock and a random UUID.
	Now    func() time.Time
	NewUID func() string
}

// Serializer writes a VCALENDAR holding exactly one VEVENT with one
// display VALARM. It holds no mutable state and is safe for concurrent use.
type Serializer struct {
	productID string
	uidDomain string
	alarmText string
	lead      time.Duration
	now       func() time.Time
	newUID    func() string
}

// NewSerializer constructs a Serializer from opts.
func NewSerializer(opts Options) *Serializer {
	s := &Serializer{
		productID: opts.ProductID,
		uidDomain: opts.UIDDomain,
		alarmText: opts.AlarmText,
		lead:      opts.ReminderLead,
		now:       opts.Now,
		newUID:    opts.NewUID,
	}
	if s.productID == "" {
		s.productID = DefaultProductID
	}
	if s.uidDomain == "" {
		s.uidDomain = DefaultUIDDomain
	}
	if s.lead <= 0 {
		s.lead = DefaultReminderLead
	}
	if s.alarmText == "" {
		s.alarmText = AlarmText(s.lead)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newUID == nil {
		s.newUID = uuid.NewString
	}
	return s
}

// ReminderLead returns how long before the start the alarm fires.
func (s *Serializer) ReminderLead() time.Duration {
	return s.lead
}

// Serialize renders ev. Property order is fixed: consuming calendar apps
// read the document line by line.
func (s *Serializer) Serialize(ev model.Event) []byte {
	uid := ev.UID
	if uid == "" {
		uid = s.newUID() + "@" + s.uidDomain
	}

	cal := ical.NewCalendar()
	cal.SetProductId(s.productID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)

	ve := cal.AddEvent(uid)
	ve.SetDtStampTime(s.now())
	ve.SetStartAt(ev.Start)
	ve.SetEndAt(ev.End)
	ve.SetSummary(escapeText(ev.Title))
	ve.SetLocation(escapeText(ev.Location))
	ve.SetDescription(escapeText(ev.Description))

	alarm := ve.AddAlarm()
	alarm.SetTrigger(Trigger(s.lead))
	alarm.SetAction(ical.ActionDisplay)
	alarm.SetDescription(s.alarmText)

	return []byte(cal.Serialize())
}

// Trigger formats a lead time as a negative RFC 5545 duration in minutes,
// e.g. -PT15M.
func Trigger(lead time.Duration) string {
	return fmt.Sprintf("-PT%dM", int(lead/time.Minute))
}

// FormatUTC renders t in the basic UTC form used for DTSTART/DTEND.
func FormatUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeText turns embedded newlines into the two-character sequence \n.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}
