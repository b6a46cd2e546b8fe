// Package audit appends to and reads the simulator's activity trail.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/db/models"
	"github.com/codeup/statio-portal/pkg/enums"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/pagination"
)

type Recorder struct {
	db   *gorm.DB
	logg *logger.Logger
}

func NewRecorder(db *gorm.DB, logg *logger.Logger) *Recorder {
	return &Recorder{db: db, logg: logg}
}

// Record appends one entry. Failures are logged and swallowed; an audit miss
// never fails the operation that triggered it.
func (r *Recorder) Record(ctx context.Context, userID *uuid.UUID, email string, action enums.ActivityAction, details string) {
	entry := models.ActivityLog{
		ID:        uuid.New(),
		UserID:    userID,
		UserEmail: email,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil && r.logg != nil {
		r.logg.Warn(ctx, "failed to record activity")
	}
}

// Filter narrows List output.
type Filter struct {
	Action string
	UserID string
}

func (r *Recorder) List(ctx context.Context, params pagination.Params, filter Filter) (*pagination.Page[portal.ActivityLog], error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count activity")
	}

	var rows []models.ActivityLog
	if err := query.Order("created_at DESC").Offset(params.Offset()).Limit(params.Size).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity")
	}

	items := make([]portal.ActivityLog, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}

	page := pagination.NewPage(items, params, total)
	return &page, nil
}

// Recent returns the newest entries, capped at limit.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]portal.ActivityLog, error) {
	var rows []models.ActivityLog
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity")
	}
	items := make([]portal.ActivityLog, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	return items, nil
}

func ToDTO(row models.ActivityLog) portal.ActivityLog {
	dto := portal.ActivityLog{
		ID:        row.ID.String(),
		UserEmail: row.UserEmail,
		Action:    string(row.Action),
		Details:   row.Details,
		CreatedAt: row.CreatedAt,
	}
	if row.UserID != nil {
		dto.UserID = row.UserID.String()
	}
	return dto
}
