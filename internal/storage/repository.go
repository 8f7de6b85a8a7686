package storage

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Trades

func (r *Repository) SaveTrade(trade *Trade) error {
	return r.db.Create(trade).Error
}

// CloseTrade marks the trade row for positionID as closed with its exit
// details.
func (r *Repository) CloseTrade(positionID string, exitTime time.Time, exitPrice float64, reason string, pnl, holdingHours float64) error {
	return r.db.Model(&Trade{}).
		Where("position_id = ?", positionID).
		Updates(map[string]any{
			"exit_time":     exitTime,
			"exit_price":    exitPrice,
			"exit_reason":   reason,
			"pnl":           pnl,
			"holding_hours": holdingHours,
			"status":        "closed",
		}).Error
}

func (r *Repository) GetOpenTrades() ([]Trade, error) {
	var trades []Trade
	err := r.db.Where("status = ?", "open").Find(&trades).Error
	return trades, err
}

func (r *Repository) GetTradeByPositionID(positionID string) (*Trade, error) {
	var trade Trade
	err := r.db.Where("position_id = ?", positionID).First(&trade).Error
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *Repository) GetRecentTrades(limit int) ([]Trade, error) {
	var trades []Trade
	err := r.db.Order("created_at DESC").Limit(limit).Find(&trades).Error
	return trades, err
}

func (r *Repository) GetTodayPnL() (float64, error) {
	today := time.Now().Truncate(24 * time.Hour)
	var total float64
	err := r.db.Model(&Trade{}).
		Where("status = ? AND updated_at >= ?", "closed", today).
		Select("COALESCE(SUM(pnl), 0)").Scan(&total).Error
	return total, err
}

func (r *Repository) GetTotalPnL() (float64, error) {
	var total float64
	err := r.db.Model(&Trade{}).
		Where("status = ?", "closed").
		Select("COALESCE(SUM(pnl), 0)").Scan(&total).Error
	return total, err
}

// Daily summaries

func (r *Repository) SaveDailySummary(summary *DailySummary) error {
	return r.db.Create(summary).Error
}

func (r *Repository) GetLatestSummary() (*DailySummary, error) {
	var summary DailySummary
	err := r.db.Order("created_at DESC").First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
