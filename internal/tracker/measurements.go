// ABOUTME: Body measurement adapter: seven magnitudes saved all-or-nothing per day.
// ABOUTME: A successful save schedules the next measurement reminder.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harperreed/healthlife/internal/calendar"
	"github.com/harperreed/healthlife/internal/daybucket"
	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/notify"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/validate"
	"golang.org/x/text/language"
)

// Reminder settings for the follow-up measurement.
const (
	ReminderID       = "bodyMeasurementReminder"
	ReminderTitle    = "Body Measurement Reminder"
	ReminderBody     = "Don't forget to log your body measurements today!"
	ReminderInterval = 30 * 24 * time.Hour
)

// MeasurementForm is raw user input, one text per field.
type MeasurementForm struct {
	Chest    string
	Belly    string
	LeftArm  string
	RightArm string
	LeftLeg  string
	RightLeg string
	Weight   string
}

// Get returns the text for f.
func (f *MeasurementForm) Get(field models.MeasurementField) string {
	if p := f.field(field); p != nil {
		return *p
	}
	return ""
}

// Set stores text for f.
func (f *MeasurementForm) Set(field models.MeasurementField, text string) {
	if p := f.field(field); p != nil {
		*p = text
	}
}

func (f *MeasurementForm) field(field models.MeasurementField) *string {
	switch field {
	case models.FieldChest:
		return &f.Chest
	case models.FieldBelly:
		return &f.Belly
	case models.FieldLeftArm:
		return &f.LeftArm
	case models.FieldRightArm:
		return &f.RightArm
	case models.FieldLeftLeg:
		return &f.LeftLeg
	case models.FieldRightLeg:
		return &f.RightLeg
	case models.FieldWeight:
		return &f.Weight
	}
	return nil
}

// FormFromRecord renders a stored record as form text in tag's conventions.
// Unset fields render empty.
func FormFromRecord(rec *models.BodyMeasurementRecord, tag language.Tag) MeasurementForm {
	var form MeasurementForm
	if rec == nil {
		return form
	}
	for _, f := range models.AllMeasurementFields {
		if v := rec.Value(f); v != nil {
			form.Set(f, validate.FormatDecimal(*v, tag))
		}
	}
	return form
}

// ReminderRecorder is notified when a reminder cannot be scheduled.
// metrics.Collector satisfies it.
type ReminderRecorder interface {
	ReminderFailed()
}

// Measurements tracks body measurements.
type Measurements struct {
	repo      *daybucket.Repository[*models.BodyMeasurementRecord, models.Measurements]
	store     storage.Store[*models.BodyMeasurementRecord]
	tag       language.Tag
	scheduler notify.Scheduler
	logger    *slog.Logger
	recorder  ReminderRecorder
}

// MeasurementOptions configures the measurement adapter.
type MeasurementOptions struct {
	Locale    language.Tag
	Scheduler notify.Scheduler
	Logger    *slog.Logger
	Recorder  ReminderRecorder
}

// NewMeasurements creates the measurement adapter on store.
func NewMeasurements(store storage.Store[*models.BodyMeasurementRecord], cal *calendar.Calendar, o MeasurementOptions, opts ...daybucket.Option) *Measurements {
	binding := daybucket.Binding[*models.BodyMeasurementRecord, models.Measurements]{
		Domain: "measurements",
		New:    models.NewBodyMeasurementRecord,
		Apply: func(r *models.BodyMeasurementRecord, m models.Measurements) {
			r.Apply(m)
		},
		Clone: (*models.BodyMeasurementRecord).Clone,
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Measurements{
		repo:      daybucket.New(store, cal, binding, opts...),
		store:     store,
		tag:       o.Locale,
		scheduler: o.Scheduler,
		logger:    logger.With("domain", "measurements"),
		recorder:  o.Recorder,
	}
}

// Locale returns the tag used to parse and format numbers.
func (m *Measurements) Locale() language.Tag {
	return m.tag
}

// Parse validates every field of form. All seven must be present,
// numeric, finite and non-negative; every failing field is reported.
func (m *Measurements) Parse(form MeasurementForm) (models.Measurements, error) {
	var (
		out  models.Measurements
		errs validate.Errors
	)
	for _, f := range models.AllMeasurementFields {
		text := form.Get(f)
		v, err := validate.ParseDecimal(string(f), text, m.tag)
		var fe *validate.FieldError
		if errors.As(err, &fe) {
			errs = append(errs, fe)
			continue
		}
		if err != nil {
			return out, err
		}
		if v == nil {
			errs = append(errs, validate.Required(string(f)))
			continue
		}
		if *v < 0 {
			errs = append(errs, &validate.FieldError{Field: string(f), Input: text, Reason: "negative"})
			continue
		}
		out.Set(f, *v)
	}
	return out, errs.Err()
}

// Save validates form and writes it to day's record. Nothing is stored if
// any field fails validation.
func (m *Measurements) Save(day time.Time, form MeasurementForm) (*models.BodyMeasurementRecord, error) {
	values, err := m.Parse(form)
	if err != nil {
		return nil, err
	}
	rec, err := m.repo.UpsertForDay(day, values)
	if err != nil {
		return nil, err
	}
	m.scheduleReminder()
	return rec, nil
}

// Edit validates form and overwrites a record located through history.
func (m *Measurements) Edit(rec *models.BodyMeasurementRecord, form MeasurementForm) error {
	values, err := m.Parse(form)
	if err != nil {
		return err
	}
	if err := m.repo.Update(rec, values); err != nil {
		return err
	}
	m.scheduleReminder()
	return nil
}

// scheduleReminder replaces the pending reminder. Failures are logged and
// counted but never undo the save.
func (m *Measurements) scheduleReminder() {
	if m.scheduler == nil {
		return
	}
	r := notify.Reminder{
		ID:     ReminderID,
		Title:  ReminderTitle,
		Body:   ReminderBody,
		FireAt: m.repo.Calendar().Now().Add(ReminderInterval),
	}
	if err := m.scheduler.Schedule(r); err != nil {
		m.logger.Warn("failed to schedule reminder", "reminder", ReminderID, "error", err)
		if m.recorder != nil {
			m.recorder.ReminderFailed()
		}
	}
}

// ForDay returns the record for the day containing day.
func (m *Measurements) ForDay(day time.Time) (*models.BodyMeasurementRecord, bool, error) {
	return m.repo.FetchForDay(day)
}

// Today returns today's record.
func (m *Measurements) Today() (*models.BodyMeasurementRecord, bool, error) {
	return m.repo.FetchForDay(m.repo.Calendar().Now())
}

// History returns every record, latest day first.
func (m *Measurements) History() ([]*models.BodyMeasurementRecord, error) {
	return m.repo.FetchAllSorted()
}

// Find locates a record by full ID or unique ID prefix.
func (m *Measurements) Find(idOrPrefix string) (*models.BodyMeasurementRecord, error) {
	return storage.ResolveID(m.store, idOrPrefix)
}

// Delete removes rec.
func (m *Measurements) Delete(rec *models.BodyMeasurementRecord) error {
	return m.repo.Delete(rec)
}

// DeleteAll removes every measurement record.
func (m *Measurements) DeleteAll() (int, error) {
	return m.repo.DeleteAll()
}

// Duplicates lists days holding more than one record.
func (m *Measurements) Duplicates() ([]daybucket.DayGroup[*models.BodyMeasurementRecord], error) {
	return m.repo.Duplicates()
}

// Summary lists the set values of rec, weight first, one per line.
func (m *Measurements) Summary(rec *models.BodyMeasurementRecord) string {
	order := []models.MeasurementField{
		models.FieldWeight, models.FieldChest, models.FieldBelly,
		models.FieldLeftArm, models.FieldRightArm, models.FieldLeftLeg, models.FieldRightLeg,
	}
	var lines []string
	for _, f := range order {
		if v := rec.Value(f); v != nil {
			lines = append(lines, fmt.Sprintf("%s: %s %s", f.Label(), validate.FormatDecimal(*v, m.tag), models.MeasurementUnits[f]))
		}
	}
	if len(lines) == 0 {
		return "No measurements"
	}
	return strings.Join(lines, "\n")
}
