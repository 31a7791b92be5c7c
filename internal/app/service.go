// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	repository "github.com/edash/edash/internal/adapters/repository"
	"github.com/edash/edash/internal/domain/activity"
	"github.com/edash/edash/internal/domain/assistant"
	"github.com/edash/edash/internal/domain/model"
	"github.com/edash/edash/internal/domain/scoring"
	"github.com/edash/edash/pkg/logger"
	"github.com/edash/edash/pkg/metrics"
)

// Service wires the record store, the score engine, the assistant and the
// activity log behind one application boundary.
type Service struct {
	// saveMu serializes the save/delete pipeline. Score histories must be
	// appended in order, one edit transaction per student at a time.
	saveMu sync.Mutex

	store    repository.Store
	activity *activity.Log
	logger   logger.Logger

	activitySize int
	started      bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets a custom record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithActivitySize bounds the activity log.
func WithActivitySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.activitySize = size
		}
	}
}

// New creates a Service with the given options.
func New(opts ...Option) *Service {
	s := &Service{
		logger: nil, // replaced on Start when unset
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	var activityOpts []activity.Option
	if s.activitySize > 0 {
		activityOpts = append(activityOpts, activity.WithCapacity(s.activitySize))
	}
	s.activity = activity.NewLog(activityOpts...)
	return s
}

// Start brings up background maintenance. Safe to call once.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if err := s.store.Start(ctx); err != nil {
		return fmt.Errorf("start store: %w", err)
	}
	s.started = true
	s.logger.Info(ctx, "service started")
	return nil
}

// Stop halts background maintenance.
func (s *Service) Stop() {
	if !s.started {
		return
	}
	s.store.Stop()
	s.started = false
}

// SaveStudent runs the save pipeline: compute the composite score, fold it
// into the record's rolling history, recompute derived tags and upsert.
// Creates when the id is unset or unknown, updates otherwise. The pipeline
// is serialized so each student's history is appended strictly in order.
func (s *Service) SaveStudent(ctx context.Context, in model.Student) (model.Student, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	score := scoring.ComputeScore(in.GPA, in.Attendance, in.AssignmentScore)
	metrics.RecordScoreComputed()

	if in.ID != "" {
		existing, err := s.store.Get(ctx, in.ID)
		if err == nil {
			in.PerformanceHistory = scoring.AppendSample(existing.PerformanceHistory, score)
			if sameLastSample(existing.PerformanceHistory, in.PerformanceHistory) {
				metrics.RecordScoreUpdateSkipped()
			}
			in.Tags = in.DeriveTags()
			out, err := s.store.Update(ctx, in)
			if err != nil {
				return model.Student{}, fmt.Errorf("update student: %w", err)
			}
			s.recordActivity(activity.KindStudentUpdated,
				fmt.Sprintf("Updated %s (score %.2f)", out.FullName(), score), out.ID)
			s.logger.Debug(ctx, "student updated",
				logger.String("id", out.ID), logger.Float64("score", score))
			return out, nil
		}
	}

	in.PerformanceHistory = scoring.AppendSample(nil, score)
	in.Tags = in.DeriveTags()
	out, err := s.store.Create(ctx, in)
	if err != nil {
		return model.Student{}, fmt.Errorf("create student: %w", err)
	}
	s.recordActivity(activity.KindStudentCreated,
		fmt.Sprintf("Registered %s (score %.2f)", out.FullName(), score), out.ID)
	s.logger.Debug(ctx, "student created",
		logger.String("id", out.ID), logger.Float64("score", score))
	return out, nil
}

// DeleteStudent removes a record.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	s.recordActivity(activity.KindStudentDeleted,
		fmt.Sprintf("Removed %s", existing.FullName()), id)
	return nil
}

// Student returns one record by id.
func (s *Service) Student(ctx context.Context, id string) (model.Student, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Student{}, fmt.Errorf("get student: %w", err)
	}
	return rec, nil
}

// Students returns a snapshot of every record.
func (s *Service) Students(ctx context.Context) []model.Student {
	return s.store.List(ctx)
}

// Ask interprets a free-text query and renders the response against the
// current record snapshot.
func (s *Service) Ask(ctx context.Context, text string) assistant.Response {
	intent := assistant.Interpret(text)
	resp := assistant.Respond(intent, &storeProvider{ctx: ctx, store: s.store})

	metrics.RecordAssistantQuery(string(intent.Kind))
	if resp.Action != nil {
		metrics.RecordAssistantAction(string(resp.Action.Type))
	}
	s.recordActivity(activity.KindQueryAsked,
		fmt.Sprintf("Assistant answered a %s query", intent.Kind), "")
	s.logger.Debug(ctx, "assistant query",
		logger.String("intent", string(intent.Kind)))
	return resp
}

// Stats returns the aggregate view of the record set.
func (s *Service) Stats(ctx context.Context) model.Statistics {
	return s.store.Statistics(ctx)
}

// Activity returns up to limit recent activity entries, newest first.
func (s *Service) Activity(_ context.Context, limit int) []activity.Entry {
	return s.activity.Entries(limit)
}

// sameLastSample reports whether the append was a no-op: the window kept its
// length and its most recent sample.
func sameLastSample(before, after []float64) bool {
	if len(before) != len(after) || len(after) == 0 {
		return false
	}
	return before[len(before)-1] == after[len(after)-1]
}

func (s *Service) recordActivity(kind activity.Kind, message, studentID string) {
	s.activity.Record(kind, message, studentID)
	metrics.UpdateActivityEntries(s.activity.Len())
}

// storeProvider adapts the record store to the assistant's Provider
// interface, binding the request context to each call.
type storeProvider struct {
	ctx   context.Context
	store repository.Store
}

func (p *storeProvider) Records() []model.Student { return p.store.List(p.ctx) }

func (p *storeProvider) Statistics() model.Statistics { return p.store.Statistics(p.ctx) }

func (p *storeProvider) AtRisk() []model.Student { return p.store.AtRisk(p.ctx) }

func (p *storeProvider) HighestGPA() []model.Student { return p.store.HighestGPA(p.ctx) }

func (p *storeProvider) PlacementReady() []model.Student { return p.store.PlacementReady(p.ctx) }

func (p *storeProvider) LowAttendance(threshold float64) []model.Student {
	return p.store.LowAttendance(p.ctx, threshold)
}

func (p *storeProvider) FindByName(query string) (model.Student, bool) {
	return p.store.FindByName(p.ctx, query)
}
