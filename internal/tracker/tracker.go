// ABOUTME: Tracker bundles the hydration, gym and body measurement adapters.
// ABOUTME: Built once per process from a storage backend and a calendar.
package tracker

import (
	"log/slog"

	"github.com/harperreed/healthlife/internal/calendar"
	"github.com/harperreed/healthlife/internal/daybucket"
	"github.com/harperreed/healthlife/internal/notify"
	"github.com/harperreed/healthlife/internal/storage"
	"golang.org/x/text/language"
)

// Recorder receives repository and reminder events.
type Recorder interface {
	daybucket.Recorder
	ReminderRecorder
}

// Options configures a Tracker. Zero values get defaults.
type Options struct {
	Hydration HydrationSettings
	Locale    language.Tag
	Scheduler notify.Scheduler
	Logger    *slog.Logger
	Recorder  Recorder
}

// Tracker is the set of domain adapters over one backend.
type Tracker struct {
	Calendar     *calendar.Calendar
	Hydration    *Hydration
	Gym          *Gym
	Measurements *Measurements
}

// New wires every adapter to b.
func New(b storage.Backend, cal *calendar.Calendar, o Options) *Tracker {
	if o.Hydration == (HydrationSettings{}) {
		o.Hydration = DefaultHydrationSettings()
	}
	if o.Locale == language.Und {
		o.Locale = language.English
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	opts := []daybucket.Option{daybucket.WithLogger(o.Logger)}
	var reminders ReminderRecorder
	if o.Recorder != nil {
		opts = append(opts, daybucket.WithRecorder(o.Recorder))
		reminders = o.Recorder
	}

	measurements := NewMeasurements(b.Measurements(), cal, MeasurementOptions{
		Locale:    o.Locale,
		Scheduler: o.Scheduler,
		Logger:    o.Logger,
		Recorder:  reminders,
	}, opts...)

	return &Tracker{
		Calendar:     cal,
		Hydration:    NewHydration(b.Hydration(), cal, o.Hydration, opts...),
		Gym:          NewGym(b.Gym(), cal, opts...),
		Measurements: measurements,
	}
}
