package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/domain/learning"
)

var CompletionAggregateContract = Contract{
	Name:             "Learning.CompletionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes: "Owns the content -> step -> course completion cascade: enrollment start/completion " +
		"timestamps and the progress upsert commit together or not at all.",
}

// CompletionAggregate is the single mutating entry point for learner progress.
//
// Failures return *Error with codes:
// CodeUnauthorized, CodeValidation, CodeNotFound, CodeBusinessRuleViolation,
// CodeConflict, CodeRetryable, CodeInternal.
type CompletionAggregate interface {
	Aggregate

	// CompleteContent marks one content item completed and cascades into step and
	// course completion. Calling it again with the same arguments updates in place.
	CompleteContent(ctx context.Context, in CompleteContentInput) (CompleteContentResult, error)
}

type CompleteContentInput struct {
	UserID            uuid.UUID
	CourseID          uuid.UUID
	ContentID         uuid.UUID
	TimeSpentMinutes  *int
	WatchedPercentage *int
}

type CompleteContentResult struct {
	ProgressID        uuid.UUID
	StepID            uuid.UUID
	IsStepCompleted   bool
	IsCourseCompleted bool
	// Events are returned for the caller to dispatch after commit.
	Events []learning.Event
}
