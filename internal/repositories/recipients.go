package repositories

import (
	"context"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"slices"
	"sync"
)

// Recipients is the only place the alert audience is read from or changed.
// Subscribers live in the database, admins come from configuration and always receive alerts.
type Recipients struct {
	mu     sync.RWMutex
	db     *gorm.DB
	admins []int64
}

func NewRecipientsRepository(db *gorm.DB, admins []int64) *Recipients {
	return &Recipients{db: db, admins: lo.Uniq(admins)}
}

func (r *Recipients) Subscribe(ctx context.Context, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.Subscriber{ChatID: chatID})
	return res.RowsAffected > 0, res.Error
}

func (r *Recipients) Unsubscribe(ctx context.Context, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.db.WithContext(ctx).Delete(&entities.Subscriber{}, "chat_id = ?", chatID)
	return res.RowsAffected > 0, res.Error
}

func (r *Recipients) IsSubscribed(ctx context.Context, chatID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Subscriber{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count > 0, err
}

func (r *Recipients) IsAdmin(chatID int64) bool {
	return slices.Contains(r.admins, chatID)
}

// All returns subscribers in subscription order followed by admins, without duplicates.
func (r *Recipients) All(ctx context.Context) ([]entities.RecipientID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var subscribers []entities.Subscriber
	if err := r.db.WithContext(ctx).Order("created_at, chat_id").Find(&subscribers).Error; err != nil {
		return nil, err
	}

	ids := lo.Map(subscribers, func(s entities.Subscriber, _ int) int64 { return s.ChatID })
	ids = lo.Uniq(append(ids, r.admins...))

	return lo.Map(ids, func(id int64, _ int) entities.RecipientID { return entities.RecipientID(id) }), nil
}
