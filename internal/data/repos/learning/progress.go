package learning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

type ProgressRepo interface {
	// Upsert marks (user, content, course) completed in one statement and
	// returns the stored row.
	Upsert(dbc dbctx.Context, row *types.Progress) (*types.Progress, error)
	GetByUserAndContent(dbc dbctx.Context, userID, contentID, courseID uuid.UUID) (*types.Progress, error)
	ListByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.Progress, error)
	ListByUserAndCourses(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]*types.Progress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Progress, error)
	CountCompletedForStep(dbc dbctx.Context, userID, stepID, courseID uuid.UUID) (int, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) Upsert(dbc dbctx.Context, row *types.Progress) (*types.Progress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.ContentID == uuid.Nil || row.CourseID == uuid.Nil {
		return nil, fmt.Errorf("progress upsert requires user, content and course")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.IsCompleted = true
	if row.CompletedAt == nil {
		row.CompletedAt = &now
	}
	if row.LastAccessedAt == nil {
		row.LastAccessedAt = &now
	}
	row.CreatedAt = now
	row.UpdatedAt = now

	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "content_id"}, {Name: "course_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_completed":       true,
				"completed_at":       gorm.Expr("EXCLUDED.completed_at"),
				"last_accessed_at":   gorm.Expr("EXCLUDED.last_accessed_at"),
				"time_spent_minutes": gorm.Expr("EXCLUDED.time_spent_minutes"),
				"watched_percentage": gorm.Expr("COALESCE(EXCLUDED.watched_percentage, " + types.Progress{}.TableName() + ".watched_percentage)"),
				"updated_at":         gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	// On conflict the generated id above was discarded; read back the real row.
	return r.GetByUserAndContent(dbc, row.UserID, row.ContentID, row.CourseID)
}

func (r *progressRepo) GetByUserAndContent(dbc dbctx.Context, userID, contentID, courseID uuid.UUID) (*types.Progress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out types.Progress
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND content_id = ? AND course_id = ?", userID, contentID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *progressRepo) ListByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.Progress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Progress
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *progressRepo) ListByUserAndCourses(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]*types.Progress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Progress
	if userID == uuid.Nil || len(courseIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *progressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Progress, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Progress
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *progressRepo) CountCompletedForStep(dbc dbctx.Context, userID, stepID, courseID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Progress{}).
		Where("user_id = ? AND step_id = ? AND course_id = ? AND is_completed = ?", userID, stepID, courseID, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *progressRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Progress{}).
		Where("id = ?", id).
		Updates(updates).Error
}
