package models

import (
	"time"
)

// Building is a cached building metadata row. Rows are only ever inserted.
type Building struct {
	AddrHash   string    `gorm:"column:addr_hash;primaryKey;type:text;not null"`
	FloorCount int       `gorm:"column:floor_count;not null"`
	IsOffice   bool      `gorm:"column:is_office;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;index;not null"`
}

// PaddingRun is one row of the append-only run log.
type PaddingRun struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	Address       string    `gorm:"column:address;type:text;not null"`
	HorizontalSec int       `gorm:"column:horizontal_sec;not null"`
	FloorCount    int       `gorm:"column:floor_count;not null"`
	IsOffice      bool      `gorm:"column:is_office;not null"`
	VerticalPad   int       `gorm:"column:vertical_pad;not null"`
	TotalSec      int       `gorm:"column:total_sec;not null"`
	Timestamp     time.Time `gorm:"column:ts;index;not null"`
}

func (Building) TableName() string {
	return "buildings"
}

func (PaddingRun) TableName() string {
	return "runs"
}
