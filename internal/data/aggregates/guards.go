package aggregates

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
)

// CASGuard runs conditional single-row updates and reports whether the guard matched.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// UpdateWhereNull applies updates only while column is still NULL. It is the
// set-once primitive behind enrollment start and completion timestamps: of
// any number of concurrent callers exactly one sees true.
func (g CASGuard) UpdateWhereNull(dbc dbctx.Context, table string, id uuid.UUID, column string, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	column = strings.TrimSpace(column)
	if table == "" || id == uuid.Nil {
		return false, ValidationError("table and id are required for UpdateWhereNull")
	}
	if !identRe.MatchString(column) {
		return false, ValidationError("invalid guard column")
	}
	if _, ok := updates[column]; !ok {
		return false, ValidationError("updates must set the guarded column")
	}
	res := db.Table(table).
		Where("id = ? AND "+column+" IS NULL", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
