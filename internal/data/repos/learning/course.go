package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

// CourseRepo reads courses with the full roadmap tree attached. Steps come back
// ordered by step_order and contents by content_order.
type CourseRepo interface {
	Create(dbc dbctx.Context, course *types.Course) (*types.Course, error)
	GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error)
	GetByStepID(dbc dbctx.Context, stepID uuid.UUID) (*types.Course, error)
	GetAll(dbc dbctx.Context) ([]*types.Course, error)
	ListActive(dbc dbctx.Context) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func withTree(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Roadmap").
		Preload("Roadmap.Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("Roadmap.Steps.Contents", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_order ASC")
		})
}

func (r *courseRepo) Create(dbc dbctx.Context, course *types.Course) (*types.Course, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if course == nil {
		return nil, nil
	}
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil {
		return nil, nil
	}
	var out types.Course
	if err := withTree(t.WithContext(dbc.Ctx)).
		Where("id = ?", courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Course
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := withTree(t.WithContext(dbc.Ctx)).
		Where("id IN ?", courseIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) GetByStepID(dbc dbctx.Context, stepID uuid.UUID) (*types.Course, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if stepID == uuid.Nil {
		return nil, nil
	}
	var courseID uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Table(types.Roadmap{}.TableName()+" AS rm").
		Select("rm.course_id").
		Joins("JOIN "+types.Step{}.TableName()+" AS st ON st.roadmap_id = rm.id").
		Where("st.id = ?", stepID).
		Limit(1).
		Scan(&courseID).Error; err != nil {
		return nil, err
	}
	if courseID == uuid.Nil {
		return nil, nil
	}
	return r.GetByID(dbc, courseID)
}

func (r *courseRepo) GetAll(dbc dbctx.Context) ([]*types.Course, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Course
	if err := withTree(t.WithContext(dbc.Ctx)).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) ListActive(dbc dbctx.Context) ([]*types.Course, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Course
	if err := withTree(t.WithContext(dbc.Ctx)).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
