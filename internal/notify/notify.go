// ABOUTME: Reminder scheduling for follow-up prompts such as the next body measurement.
// ABOUTME: FileScheduler keeps pending reminders in a JSON file, one per reminder ID.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Reminder is a notification to show at FireAt.
type Reminder struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fire_at"`
}

// Scheduler accepts reminders. Scheduling an ID that is already pending replaces it.
type Scheduler interface {
	Schedule(r Reminder) error
}

// FileScheduler persists reminders to a JSON file.
type FileScheduler struct {
	path string
	mu   sync.Mutex
}

// Compile-time check that FileScheduler implements Scheduler.
var _ Scheduler = (*FileScheduler)(nil)

// NewFileScheduler stores reminders at path. The file is created on first write.
func NewFileScheduler(path string) *FileScheduler {
	return &FileScheduler{path: path}
}

// Path returns the reminder file location.
func (s *FileScheduler) Path() string {
	return s.path
}

// Schedule adds r, replacing any pending reminder with the same ID.
func (s *FileScheduler) Schedule(r Reminder) error {
	if r.ID == "" {
		return errors.New("schedule reminder: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load()
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	pending[r.ID] = r
	if err := s.save(pending); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	return nil
}

// Cancel removes the reminder with id. Cancelling an unknown ID is not an error.
func (s *FileScheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load()
	if err != nil {
		return fmt.Errorf("cancel reminder: %w", err)
	}
	if _, ok := pending[id]; !ok {
		return nil
	}
	delete(pending, id)
	if err := s.save(pending); err != nil {
		return fmt.Errorf("cancel reminder: %w", err)
	}
	return nil
}

// Pending returns every scheduled reminder, soonest first.
func (s *FileScheduler) Pending() ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	out := make([]Reminder, 0, len(pending))
	for _, r := range pending {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out, nil
}

// Due returns the pending reminders whose fire time is at or before now.
func (s *FileScheduler) Due(now time.Time) ([]Reminder, error) {
	pending, err := s.Pending()
	if err != nil {
		return nil, err
	}
	var due []Reminder
	for _, r := range pending {
		if !r.FireAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (s *FileScheduler) load() (map[string]Reminder, error) {
	pending := make(map[string]Reminder)
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return pending, nil
	}
	if err != nil {
		return nil, err
	}
	var list []Reminder
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	for _, r := range list {
		pending[r.ID] = r
	}
	return pending, nil
}

func (s *FileScheduler) save(pending map[string]Reminder) error {
	list := make([]Reminder, 0, len(pending))
	for _, r := range pending {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
