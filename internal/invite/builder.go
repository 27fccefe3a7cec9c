package invite

import (
	"fmt"
	"strings"
	"time"

	"huntersledger/internal/ics"
	"huntersledger/internal/model"
)

const (
	DefaultDuration = 2 * time.Hour
	DefaultLocation = "Discord - Hunter's Haven"
	DefaultNotes    = "This calendar invite was created by Hunter's Ledger for your upcoming hunt."
)

// Request holds the raw user input for one invite.
type Request struct {
	Title    string
	Date     string
	Time     string
	Timezone string // optional
	Notes    string // optional
}

// Options configures a Builder. Zero fields take the package defaults.
type Options struct {
	DefaultZone  string
	Duration     time.Duration
	Location     string
	DefaultNotes string
	Serializer   *ics.Serializer
}

// Builder turns a Request into a calendar document. It is immutable after
// construction and may be shared across goroutines.
type Builder struct {
	resolver   *Resolver
	duration   time.Duration
	location   string
	notes      string
	serializer *ics.Serializer
}

// NewBuilder constructs a Builder from opts.
func NewBuilder(opts Options) *Builder {
	zone := opts.DefaultZone
	if zone == "" {
		zone = DefaultZone
	}
	b := &Builder{
		resolver:   NewResolver(zone),
		duration:   opts.Duration,
		location:   opts.Location,
		notes:      opts.DefaultNotes,
		serializer: opts.Serializer,
	}
	if b.duration < time.Minute {
		b.duration = DefaultDuration
	}
	if b.location == "" {
		b.location = DefaultLocation
	}
	if b.notes == "" {
		b.notes = DefaultNotes
	}
	if b.serializer == nil {
		b.serializer = ics.NewSerializer(ics.Options{})
	}
	return b
}

// Resolver exposes the builder's timezone resolver.
func (b *Builder) Resolver() *Resolver {
	return b.resolver
}

// Result is a generated invite plus the metadata a caller needs to present
// it.
type Result struct {
	Document     []byte
	Filename     string
	Event        model.Event
	Window       Window
	Zone         string
	Duration     time.Duration
	ReminderLead time.Duration
}

// Build parses the request and renders the document. Date and time are
// parsed before anything else, so an error means no document was built.
func (b *Builder) Build(req Request) (*Result, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	clock, err := ParseTime(req.Time)
	if err != nil {
		return nil, err
	}

	loc := b.resolver.Resolve(req.Timezone)
	w := Assemble(date, clock, loc, b.duration)

	desc := strings.TrimSpace(req.Notes)
	if desc == "" {
		desc = b.notes
	}
	ev := model.Event{
		Title:       req.Title,
		Description: desc,
		Location:    b.location,
		Start:       w.Start,
		End:         w.End,
	}

	return &Result{
		Document:     b.serializer.Serialize(ev),
		Filename:     Filename(req.Title, w.StartWall, loc.String()),
		Event:        ev,
		Window:       w,
		Zone:         loc.String(),
		Duration:     b.duration,
		ReminderLead: b.serializer.ReminderLead(),
	}, nil
}

// ContentType returns the MIME type of Document.
func (r *Result) ContentType() string {
	return ics.ContentType
}

// LocalStart formats the requested wall-clock start, e.g. "Wed 17 Sep 2025 • 17:00".
func (r *Result) LocalStart() string {
	return r.Window.StartWall.Format("Mon 02 Jan 2006 • 15:04")
}

// Confirmation is the chat-ready summary of the created session.
func (r *Result) Confirmation() string {
	return fmt.Sprintf("✅ **%s** session created for **%s** (%s)\n"+
		"• Duration: %s\n• Reminder: %d mins before\n"+
		"📅 Add it to your calendar below:",
		r.Event.Title, r.LocalStart(), r.Zone,
		FormatDuration(r.Duration), int(r.ReminderLead/time.Minute))
}

// FormatDuration renders whole hours as "2h" and anything else as
// hours+minutes, e.g. "1h30m" or "45m".
func FormatDuration(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	switch {
	case m == 0:
		return fmt.Sprintf("%dh", h)
	case h == 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
