// Package repository defines the student record store interface and errors.
package repository

import (
	"context"

	"github.com/edash/edash/internal/domain/model"
)

// Store provides read/write access to student records plus the derived
// query sets the assistant and the dashboard render from.
type Store interface {
	// Create inserts a new record, assigning an id when none is set.
	Create(ctx context.Context, s model.Student) (model.Student, error)
	// Update replaces an existing record. Returns ErrNotFound if absent.
	Update(ctx context.Context, s model.Student) (model.Student, error)
	// Delete removes a record. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
	// Get returns one record by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (model.Student, error)
	// List returns a snapshot of every record, sorted by last then first name.
	List(ctx context.Context) []model.Student
	// Count returns the number of records tracked.
	Count(ctx context.Context) int

	// Statistics aggregates the record set.
	Statistics(ctx context.Context) model.Statistics
	// AtRisk returns students with low attendance or low GPA.
	AtRisk(ctx context.Context) []model.Student
	// HighestGPA returns every student tied at the maximum GPA.
	HighestGPA(ctx context.Context) []model.Student
	// LowAttendance returns students with attendance below threshold.
	LowAttendance(ctx context.Context, threshold float64) []model.Student
	// PlacementReady returns students tagged or qualifying as placement ready.
	PlacementReady(ctx context.Context) []model.Student
	// FindByName returns the first student whose first or last name contains
	// query, case-insensitively, in List order.
	FindByName(ctx context.Context, query string) (model.Student, bool)

	// Start launches background maintenance (metrics refresh).
	Start(ctx context.Context) error
	// Stop halts background maintenance.
	Stop()
}
