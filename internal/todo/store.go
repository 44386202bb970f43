package todo

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/storage"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutations and tolerated load failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithUpdatedAt controls whether toggles and edits stamp updatedAt.
func WithUpdatedAt(enabled bool) Option {
	return func(s *Store) {
		s.trackUpdates = enabled
	}
}

// Store owns the task list, the theme flag and the edit selection.
// It is not safe for concurrent use.
type Store struct {
	kv           storage.Storage
	logger       *log.Logger
	now          func() time.Time
	newID        func() string
	trackUpdates bool

	tasks    []Task
	darkMode bool
	editing  string

	observers []subscription
	nextSubID int
}

type subscription struct {
	id int
	fn Observer
}

// Open creates a Store backed by kv and loads its state.
// Unreadable or invalid stored state is replaced by defaults.
func Open(kv storage.Storage, opts ...Option) *Store {
	s := &Store{
		kv:           kv,
		logger:       logging.Discard(),
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		trackUpdates: true,
		tasks:        []Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	s.tasks = []Task{}
	if doc, ok, err := s.kv.Get(storage.KeyTodos); err != nil {
		s.logger.Warn("reading tasks failed, starting empty", "err", err)
	} else if ok {
		tasks, err := DecodeTasks(doc)
		if err != nil {
			s.logger.Warn("stored tasks are invalid, starting empty", "err", err)
		} else {
			s.tasks = tasks
		}
	}

	s.darkMode = false
	if doc, ok, err := s.kv.Get(storage.KeyDarkMode); err != nil {
		s.logger.Warn("reading theme failed, using light", "err", err)
	} else if ok {
		dark, err := DecodeDarkMode(doc)
		if err != nil {
			s.logger.Warn("stored theme is invalid, using light", "err", err)
		} else {
			s.darkMode = dark
		}
	}

	s.logger.Debug("store loaded", "tasks", len(s.tasks), "dark_mode", s.darkMode)
}

// Tasks returns a copy of the task list in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i].clone(), true
	}
	return Task{}, false
}

// DarkMode returns the theme flag.
func (s *Store) DarkMode() bool {
	return s.darkMode
}

// Editing returns the id of the task being edited, if any.
func (s *Store) Editing() (string, bool) {
	return s.editing, s.editing != ""
}

// Remaining counts tasks that are not completed.
func (s *Store) Remaining() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Create appends a new task. It returns ErrEmptyInput if text is blank.
func (s *Store) Create(text string) (Task, error) {
	text, ok := cleanText(text)
	if !ok {
		return Task{}, ErrEmptyInput
	}
	task := Task{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: s.now(),
	}
	s.tasks = append(s.tasks, task)
	s.logger.Debug("task created", "id", task.ID)

	err := s.saveTasks()
	s.notify(Event{Kind: EventCreated, TaskID: task.ID})
	return task.clone(), err
}

// Toggle flips the completion flag. Unknown ids are ignored.
func (s *Store) Toggle(id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.touch(i)
	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)

	err := s.saveTasks()
	s.notify(Event{Kind: EventToggled, TaskID: id})
	return err
}

// StartEdit selects a task for editing. Unknown ids are ignored.
func (s *Store) StartEdit(id string) {
	if s.index(id) < 0 {
		return
	}
	s.editing = id
	s.notify(Event{Kind: EventEditStarted, TaskID: id})
}

// CancelEdit clears the edit selection.
func (s *Store) CancelEdit() {
	if s.editing == "" {
		return
	}
	id := s.editing
	s.editing = ""
	s.notify(Event{Kind: EventEditCancelled, TaskID: id})
}

// SaveEdit replaces the text of a task and clears the edit selection.
// On ErrEmptyInput nothing changes and the selection is kept. Unknown ids
// are ignored and leave the selection alone.
func (s *Store) SaveEdit(id, text string) error {
	text, ok := cleanText(text)
	if !ok {
		return ErrEmptyInput
	}
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.editing = ""
	s.tasks[i].Text = text
	s.touch(i)
	s.logger.Debug("task edited", "id", id)

	err := s.saveTasks()
	s.notify(Event{Kind: EventEdited, TaskID: id})
	return err
}

// Delete removes a task. Unknown ids are ignored.
func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if s.editing == id {
		s.editing = ""
	}
	s.logger.Debug("task deleted", "id", id)

	err := s.saveTasks()
	s.notify(Event{Kind: EventDeleted, TaskID: id})
	return err
}

// ToggleTheme flips the dark-mode flag.
func (s *Store) ToggleTheme() error {
	s.darkMode = !s.darkMode
	s.logger.Debug("theme toggled", "dark_mode", s.darkMode)

	var err error
	if werr := s.kv.Set(storage.KeyDarkMode, EncodeDarkMode(s.darkMode)); werr != nil {
		s.logger.Error("saving theme failed", "err", werr)
		err = fmt.Errorf("save theme: %w", werr)
	}
	s.notify(Event{Kind: EventThemeChanged})
	return err
}

// Subscribe registers an observer. The returned func removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.nextSubID++
	id := s.nextSubID
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(ev Event) {
	for _, sub := range s.observers {
		sub.fn(ev)
	}
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) touch(i int) {
	if !s.trackUpdates {
		return
	}
	now := s.now()
	s.tasks[i].UpdatedAt = &now
}

func (s *Store) saveTasks() error {
	doc, err := EncodeTasks(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(storage.KeyTodos, doc); err != nil {
		s.logger.Error("saving tasks failed", "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
