package repositories

import (
	"context"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type Visitors struct {
	db *gorm.DB
}

func NewVisitorsRepository(db *gorm.DB) *Visitors {
	return &Visitors{db: db}
}

func (v *Visitors) Record(ctx context.Context, visitor entities.Visitor) error {
	return v.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&visitor).Error
}

func (v *Visitors) GetAll(ctx context.Context) ([]entities.Visitor, error) {
	var visitors []entities.Visitor
	if err := v.db.WithContext(ctx).Order("last_seen_at desc").Find(&visitors).Error; err != nil {
		return nil, err
	}
	return visitors, nil
}

func (v *Visitors) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := v.db.WithContext(ctx).Delete(&entities.Visitor{}, "last_seen_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}
