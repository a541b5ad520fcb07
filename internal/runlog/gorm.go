package runlog

import (
	"context"
	"fmt"

	"github.com/sdko-org/vertical-padding/internal/models"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GormLog inserts runs into the runs table.
type GormLog struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewGormLog(logger *logrus.Logger, db *gorm.DB) *GormLog {
	return &GormLog{
		db:  db,
		log: logger.WithField("component", "run_log"),
	}
}

func (l *GormLog) Append(ctx context.Context, run padding.Run) error {
	row := toModel(run)
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		l.log.WithError(err).WithField("run_id", run.ID).Error("Failed to append run")
		return fmt.Errorf("%w: append run: %v", padding.ErrStorage, err)
	}
	return nil
}

func toModel(run padding.Run) models.PaddingRun {
	return models.PaddingRun{
		ID:            run.ID,
		Address:       run.Address,
		HorizontalSec: run.HorizontalSec,
		FloorCount:    run.FloorCount,
		IsOffice:      run.IsOffice,
		VerticalPad:   run.VerticalPad,
		TotalSec:      run.TotalSec,
		Timestamp:     run.Timestamp.UTC(),
	}
}
