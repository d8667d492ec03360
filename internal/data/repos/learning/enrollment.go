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

type EnrollmentRepo interface {
	Create(dbc dbctx.Context, row *types.Enrollment) (*types.Enrollment, error)
	GetByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error)
	LockByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus) ([]*types.Enrollment, error)
	CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, row *types.Enrollment) (*types.Enrollment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	if row.EnrolledAt.IsZero() {
		row.EnrolledAt = now
	}
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *enrollmentRepo) GetByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var out types.Enrollment
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

// LockByUserAndCourse selects the enrollment FOR UPDATE. It returns nil, nil
// when the user is not enrolled.
func (r *enrollmentRepo) LockByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByUserAndCourse requires dbc.Tx")
	}
	if userID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var out types.Enrollment
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *enrollmentRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus) ([]*types.Enrollment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Enrollment
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	switch status {
	case types.EnrollmentStatusActive:
		q = q.Where("is_active = ? AND completed_at IS NULL", true)
	case types.EnrollmentStatusCompleted:
		q = q.Where("completed_at IS NOT NULL")
	}
	if err := q.Order("enrolled_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
