// Package view holds the state of the test case view: the form inputs, the
// generated list, and the messages shown to the user. It knows nothing about
// rendering; the TUI and the generate command both drive it.
package view

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Makepad-fr/casegen/internal/api"
	"github.com/Makepad-fr/casegen/internal/cases"
	"github.com/Makepad-fr/casegen/internal/clipboard"
	"github.com/Makepad-fr/casegen/internal/model"
)

// Messages shown to the user. Failures never carry detail; that goes to the log.
const (
	MsgEmptyStory     = "Please enter a User Story"
	MsgGenerateFailed = "Failed to generate test cases. Please try again."
	MsgExported       = "Successfully exported to Jira!"
	MsgExportFailed   = "Failed to export to Jira. Check your Project Key."
	MsgCopyFailed     = "Failed to copy to clipboard."
)

const (
	DefaultProjectKey = "KAN"

	// CopiedFor is how long the "Copied!" confirmation stays up.
	CopiedFor = 2 * time.Second
)

var (
	ErrEmptyStory      = errors.New("user story is empty")
	ErrNothingToExport = errors.New("no test cases to export")
	ErrBusy            = errors.New("request already in flight")
)

// Backend is the remote side of the view.
type Backend interface {
	Generate(ctx context.Context, req api.GenerateRequest) ([]model.TestCase, error)
	Export(ctx context.Context, req api.ExportRequest) error
}

// State is the view. Methods are not safe for concurrent use.
type State struct {
	UserStory          string
	AcceptanceCriteria string
	ProjectKey         string
	ParentKey          string

	list    *cases.List
	backend Backend
	log     *zap.Logger
	copyFn  func(string) error

	generating bool
	exporting  bool
	errMsg     string
	successMsg string
	copied     bool
	copySeq    int
}

type Option func(*State)

func WithLogger(l *zap.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(s *State) { s.copyFn = fn }
}

func WithProjectKey(key string) Option {
	return func(s *State) {
		if key != "" {
			s.ProjectKey = key
		}
	}
}

// New returns an empty view backed by b.
func New(b Backend, opts ...Option) *State {
	s := &State{
		ProjectKey: DefaultProjectKey,
		list:       cases.New(nil),
		backend:    b,
		log:        zap.NewNop(),
		copyFn:     clipboard.WriteAll,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *State) Cases() []model.TestCase { return s.list.Items() }
func (s *State) Len() int                { return s.list.Len() }
func (s *State) Stats() (positive, negative int) {
	return s.list.Stats()
}
func (s *State) At(i int) (model.TestCase, bool) { return s.list.At(i) }
func (s *State) Get(id string) (model.TestCase, bool) { return s.list.Get(id) }

func (s *State) Generating() bool { return s.generating }
func (s *State) Exporting() bool  { return s.exporting }
func (s *State) Error() string    { return s.errMsg }
func (s *State) Success() string  { return s.successMsg }
func (s *State) Copied() bool     { return s.copied }

// BeginGenerate validates the form and prepares a generate call.
// On success the list is cleared and the returned request must be sent,
// followed by FinishGenerate.
func (s *State) BeginGenerate() (api.GenerateRequest, error) {
	if s.generating {
		return api.GenerateRequest{}, ErrBusy
	}
	if strings.TrimSpace(s.UserStory) == "" {
		s.errMsg = MsgEmptyStory
		return api.GenerateRequest{}, ErrEmptyStory
	}
	s.generating = true
	s.errMsg = ""
	s.successMsg = ""
	s.list.Clear()
	return api.GenerateRequest{
		UserStory:          s.UserStory,
		AcceptanceCriteria: s.AcceptanceCriteria,
	}, nil
}

// FinishGenerate records the outcome of a generate call.
func (s *State) FinishGenerate(cs []model.TestCase, err error) {
	s.generating = false
	if err != nil {
		s.log.Error("generate test cases", zap.Error(err))
		s.list.Clear()
		s.errMsg = MsgGenerateFailed
		return
	}
	s.list.Replace(cs)
	s.log.Info("generated test cases", zap.Int("count", len(cs)))
}

// Generate runs a full generate round trip.
func (s *State) Generate(ctx context.Context) error {
	req, err := s.BeginGenerate()
	if err != nil {
		return err
	}
	cs, err := s.backend.Generate(ctx, req)
	s.FinishGenerate(cs, err)
	return err
}

// BeginExport prepares an export of the current list. With nothing to export
// the state is left untouched.
func (s *State) BeginExport() (api.ExportRequest, error) {
	if s.list.Len() == 0 {
		return api.ExportRequest{}, ErrNothingToExport
	}
	if s.exporting {
		return api.ExportRequest{}, ErrBusy
	}
	s.exporting = true
	s.errMsg = ""
	return api.ExportRequest{
		ProjectKey: strings.TrimSpace(s.ProjectKey),
		ParentKey:  strings.TrimSpace(s.ParentKey),
		TestCases:  s.list.Items(),
	}, nil
}

// FinishExport records the outcome of an export call.
func (s *State) FinishExport(err error) {
	s.exporting = false
	if err != nil {
		s.log.Error("export to jira", zap.Error(err), zap.String("project_key", s.ProjectKey))
		s.errMsg = MsgExportFailed
		return
	}
	s.successMsg = MsgExported
	s.log.Info("exported test cases", zap.Int("count", s.list.Len()), zap.String("project_key", s.ProjectKey))
}

// Export runs a full export round trip.
func (s *State) Export(ctx context.Context) error {
	req, err := s.BeginExport()
	if err != nil {
		return err
	}
	err = s.backend.Export(ctx, req)
	s.FinishExport(err)
	return err
}

// Copy puts the list on the clipboard as a spreadsheet table and raises the
// copied flag. The returned sequence number is handed back to ResetCopied.
// An empty list is a no-op.
func (s *State) Copy() (int, error) {
	wrote, err := clipboard.Copy(s.copyFn, s.list.Items())
	if err != nil {
		s.log.Error("copy to clipboard", zap.Error(err))
		s.errMsg = MsgCopyFailed
		return s.copySeq, err
	}
	if !wrote {
		return s.copySeq, nil
	}
	s.copySeq++
	s.copied = true
	return s.copySeq, nil
}

// ResetCopied lowers the copied flag unless a newer copy happened since seq.
func (s *State) ResetCopied(seq int) {
	if seq == s.copySeq {
		s.copied = false
	}
}

func (s *State) Add() model.TestCase { return s.list.Add() }

func (s *State) Delete(id string) bool { return s.list.Delete(id) }

// Restore puts back a case removed by Delete.
func (s *State) Restore(i int, tc model.TestCase) { s.list.Insert(i, tc) }

func (s *State) SetTitle(id, v string) bool { return s.list.SetTitle(id, v) }

// SetStepsText splits text on newlines, one step per line.
func (s *State) SetStepsText(id, text string) bool {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return s.list.SetSteps(id, strings.Split(text, "\n"))
}

func (s *State) SetExpectedResult(id, v string) bool { return s.list.SetExpectedResult(id, v) }

func (s *State) ToggleType(id string) bool { return s.list.ToggleType(id) }
