package repository

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/edash/edash/internal/domain/model"
	"github.com/edash/edash/pkg/metrics"
)

// Mutex-guarded, in-memory Store implementation.
//
// The record set is small (a dashboard's worth of students), so reads take a
// full snapshot and filter; there is no secondary index to keep consistent.
// Records are cloned on the way in and out so callers can never alias the
// stored state.

const defaultMetricsUpdateInterval = 10 * time.Second

// MemStore implements Store with an in-memory map.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]model.Student

	metricsUpdateInterval time.Duration
	now                   func() time.Time

	stopCh  chan struct{}
	started bool
}

// NewMemStore creates an empty store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		records:               make(map[string]model.Student),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		now:                   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background gauge refresher.
func (s *MemStore) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true
	s.stopCh = make(chan struct{})
	go s.refreshMetrics(ctx, s.stopCh)
	return nil
}

// Stop halts the background gauge refresher.
func (s *MemStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
}

func (s *MemStore) refreshMetrics(ctx context.Context, stopCh <-chan struct{}) {
	ticker := time.NewTicker(s.metricsUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			metrics.UpdateStudentsTotal(s.Count(ctx))
		}
	}
}

// Create inserts a new record, assigning an id when none is set.
func (s *MemStore) Create(_ context.Context, in model.Student) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID == "" {
		in.ID = model.NewID()
	} else if _, ok := s.records[in.ID]; ok {
		return model.Student{}, ErrAlreadyExists
	}
	now := s.now()
	in.CreatedAt = now
	in.UpdatedAt = now
	s.records[in.ID] = in.Clone()
	metrics.UpdateStudentsTotal(len(s.records))
	return in, nil
}

// Update replaces an existing record, preserving its creation time.
func (s *MemStore) Update(_ context.Context, in model.Student) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[in.ID]
	if !ok {
		return model.Student{}, ErrNotFound
	}
	in.CreatedAt = existing.CreatedAt
	in.UpdatedAt = s.now()
	s.records[in.ID] = in.Clone()
	return in, nil
}

// Delete removes a record.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	metrics.UpdateStudentsTotal(len(s.records))
	return nil
}

// Get returns one record by id.
func (s *MemStore) Get(_ context.Context, id string) (model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return model.Student{}, ErrNotFound
	}
	return rec.Clone(), nil
}

// List returns a snapshot sorted by last name, first name, then id.
func (s *MemStore) List(_ context.Context) []model.Student {
	start := time.Now()
	s.mu.RLock()
	out := make([]model.Student, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	return out
}

// Count returns the number of records tracked.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// AtRisk returns students with low attendance or low GPA.
func (s *MemStore) AtRisk(ctx context.Context) []model.Student {
	return s.filter(ctx, model.Student.AtRisk)
}

// PlacementReady returns students tagged or qualifying as placement ready.
func (s *MemStore) PlacementReady(ctx context.Context) []model.Student {
	return s.filter(ctx, model.Student.PlacementReady)
}

// LowAttendance returns students with attendance strictly below threshold.
func (s *MemStore) LowAttendance(ctx context.Context, threshold float64) []model.Student {
	return s.filter(ctx, func(rec model.Student) bool {
		return rec.Attendance < threshold
	})
}

// HighestGPA returns every student tied at the maximum GPA.
func (s *MemStore) HighestGPA(ctx context.Context) []model.Student {
	all := s.List(ctx)
	max := math.Inf(-1)
	for _, rec := range all {
		if rec.GPA > max {
			max = rec.GPA
		}
	}
	var out []model.Student
	for _, rec := range all {
		if rec.GPA == max {
			out = append(out, rec)
		}
	}
	return out
}

// FindByName returns the first student whose first or last name contains
// query, case-insensitively, in List order.
func (s *MemStore) FindByName(ctx context.Context, query string) (model.Student, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return model.Student{}, false
	}
	for _, rec := range s.List(ctx) {
		if strings.Contains(strings.ToLower(rec.FirstName), q) ||
			strings.Contains(strings.ToLower(rec.LastName), q) {
			return rec, true
		}
	}
	return model.Student{}, false
}

// Statistics aggregates the record set.
func (s *MemStore) Statistics(ctx context.Context) model.Statistics {
	stats := model.Statistics{
		ByDepartment:      make(map[string]int),
		ByYear:            make(map[string]int),
		ByGender:          make(map[string]int),
		GPABuckets:        make(map[string]int),
		AttendanceBuckets: make(map[string]int),
		DepartmentAvgGPA:  make(map[string]float64),
	}
	all := s.List(ctx)
	stats.Total = len(all)
	if stats.Total == 0 {
		return stats
	}

	gpaSums := make(map[string]float64)
	var gpaSum, attendanceSum float64
	for _, rec := range all {
		stats.ByDepartment[rec.Department]++
		stats.ByYear[strconv.Itoa(rec.Year)]++
		stats.ByGender[rec.Gender]++
		stats.GPABuckets[gpaBucket(rec.GPA)]++
		stats.AttendanceBuckets[attendanceBucket(rec.Attendance)]++
		gpaSums[rec.Department] += rec.GPA
		gpaSum += rec.GPA
		attendanceSum += rec.Attendance
	}
	stats.DepartmentCount = len(stats.ByDepartment)
	stats.AverageGPA = round2(gpaSum / float64(stats.Total))
	stats.AverageAttendance = round2(attendanceSum / float64(stats.Total))
	for dep, sum := range gpaSums {
		stats.DepartmentAvgGPA[dep] = round2(sum / float64(stats.ByDepartment[dep]))
	}
	return stats
}

func (s *MemStore) filter(ctx context.Context, keep func(model.Student) bool) []model.Student {
	var out []model.Student
	for _, rec := range s.List(ctx) {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// gpaBucket labels a GPA for the distribution chart. Buckets are half-open
// below 4.0; a perfect GPA lands in the top bucket.
func gpaBucket(gpa float64) string {
	switch {
	case gpa < 2.0:
		return "<2.0"
	case gpa < 2.5:
		return "2.0-2.5"
	case gpa < 3.0:
		return "2.5-3.0"
	case gpa < 3.5:
		return "3.0-3.5"
	default:
		return "3.5-4.0"
	}
}

// attendanceBucket labels attendance for the distribution chart.
func attendanceBucket(attendance float64) string {
	switch {
	case attendance < 60:
		return "<60"
	case attendance < 70:
		return "60-70"
	case attendance < 80:
		return "70-80"
	case attendance < 90:
		return "80-90"
	default:
		return "90-100"
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
