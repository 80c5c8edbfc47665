package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spektr-org/csvlens/chart"
	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/table"
	"github.com/spektr-org/csvlens/translator"
)

// ============================================================================
// SESSION — State owned by one user between uploads
// ============================================================================
// A Session holds the uploaded table, its profile and the latest
// translation. Loading a new file resets everything. Charts and exports
// read the translated table when there is one, the upload otherwise. The
// profile always describes the upload.
// ============================================================================

// ErrNoTable is returned when an operation needs a loaded table.
var ErrNoTable = errors.New("no table loaded")

// Session is the per-user context passed to every component.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.RWMutex
	fileName    string
	table       *table.Table
	profile     *schema.TableProfile
	translation *translator.Result
	labels      map[string]string
}

// New creates an empty session.
func New(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		labels:    map[string]string{},
	}
}

// Load parses a file and replaces the session contents.
func (s *Session) Load(fileName string, data []byte, opts schema.Options, loadOpts ...table.Option) error {
	t, err := table.Load(fileName, data, loadOpts...)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", fileName, err)
	}
	s.SetTable(fileName, t, opts)
	return nil
}

// SetTable replaces the session contents with an already loaded table.
func (s *Session) SetTable(fileName string, t *table.Table, opts schema.Options) {
	profile := schema.Analyze(t, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileName = fileName
	s.table = t
	s.profile = profile
	s.translation = nil
	s.labels = map[string]string{}
}

// Clear drops the table and everything derived from it.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileName = ""
	s.table = nil
	s.profile = nil
	s.translation = nil
	s.labels = map[string]string{}
}

// FileName returns the name of the uploaded file.
func (s *Session) FileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fileName
}

// Loaded reports whether a table is present.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table != nil
}

// Original returns the uploaded table.
func (s *Session) Original() (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, ErrNoTable
	}
	return s.table, nil
}

// Current returns the translated table if present, else the upload.
func (s *Session) Current() (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, ErrNoTable
	}
	if s.translation != nil {
		return s.translation.Table, nil
	}
	return s.table, nil
}

// Profile returns the profile of the uploaded table.
func (s *Session) Profile() (*schema.TableProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, ErrNoTable
	}
	return s.profile, nil
}

// Translation returns the latest translation result, or nil.
func (s *Session) Translation() *translator.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.translation
}

// Translate runs the translator over the uploaded table and keeps the
// result. Label translations accumulate across runs.
func (s *Session) Translate(ctx context.Context, tr *translator.Translator, columns []string, target string, progress translator.ProgressFunc) (*translator.Result, error) {
	src, err := s.Original()
	if err != nil {
		return nil, err
	}

	res, err := tr.TranslateTable(ctx, src, columns, target, progress)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table != src {
		return nil, errors.New("table was replaced during translation")
	}
	s.translation = res
	for k, v := range res.Labels {
		s.labels[k] = v
	}
	return res, nil
}

// Label returns the display label for a column: its translation when one
// exists, the name itself otherwise.
func (s *Session) Label(column string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.labels[column]; ok {
		return l
	}
	return column
}

// Labels returns a copy of the label translations.
func (s *Session) Labels() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.labels))
	for k, v := range s.labels {
		out[k] = v
	}
	return out
}

// Chart builds a chart over the current table.
func (s *Session) Chart(req chart.Request) chart.Result {
	t, err := s.Current()
	if err != nil {
		return chart.Result{Err: err.Error()}
	}
	return chart.Build(req, t)
}
