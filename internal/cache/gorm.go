package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sdko-org/vertical-padding/internal/addresskey"
	"github.com/sdko-org/vertical-padding/internal/models"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps building metadata in the buildings table.
type GormStore struct {
	db  *gorm.DB
	log *logrus.Entry
	now func() time.Time
}

func NewGormStore(logger *logrus.Logger, db *gorm.DB) *GormStore {
	return &GormStore{
		db:  db,
		log: logger.WithField("component", "building_store"),
		now: time.Now,
	}
}

func (s *GormStore) Get(ctx context.Context, key addresskey.Key) (padding.BuildingMetadata, bool, error) {
	var row models.Building
	err := s.db.WithContext(ctx).Where("addr_hash = ?", key.String()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return padding.BuildingMetadata{}, false, nil
	}
	if err != nil {
		return padding.BuildingMetadata{}, false, fmt.Errorf("%w: building lookup: %v", padding.ErrStorage, err)
	}
	return toMetadata(row), true, nil
}

// PutIfAbsent relies on ON CONFLICT DO NOTHING so concurrent writers for the
// same key never overwrite each other. When the insert loses, the winning row
// is read back.
func (s *GormStore) PutIfAbsent(ctx context.Context, key addresskey.Key, meta padding.BuildingMetadata) (padding.BuildingMetadata, error) {
	row := models.Building{
		AddrHash:   key.String(),
		FloorCount: meta.FloorCount,
		IsOffice:   meta.IsOffice,
		CreatedAt:  s.now(),
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "addr_hash"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return padding.BuildingMetadata{}, fmt.Errorf("%w: building insert: %v", padding.ErrStorage, result.Error)
	}
	if result.RowsAffected == 1 {
		return meta, nil
	}

	s.log.WithField("key", key.String()).Debug("Building already cached, keeping first write")

	stored, ok, err := s.Get(ctx, key)
	if err != nil {
		return padding.BuildingMetadata{}, err
	}
	if !ok {
		return padding.BuildingMetadata{}, fmt.Errorf("%w: building %s vanished after conflict", padding.ErrStorage, key)
	}
	return stored, nil
}

func toMetadata(row models.Building) padding.BuildingMetadata {
	return padding.BuildingMetadata{
		FloorCount: row.FloorCount,
		IsOffice:   row.IsOffice,
	}
}
