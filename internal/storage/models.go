package storage

import "time"

type Trade struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PositionID  string `gorm:"uniqueIndex;not null" json:"position_id"`
	CompositeID string `gorm:"index" json:"composite_id"`

	Symbol     string    `gorm:"index;not null" json:"symbol"`
	OptionSide string    `gorm:"not null" json:"option_side"` // CE or PE
	Strike     float64   `gorm:"not null" json:"strike"`
	Expiry     time.Time `json:"expiry"`
	Action     string    `gorm:"not null" json:"action"` // BUY or SELL
	Class      string    `gorm:"not null" json:"class"`  // SINGLE or SPREAD_LEG

	Quantity int     `gorm:"not null" json:"quantity"`
	LotSize  int     `gorm:"not null" json:"lot_size"`
	Entry    float64 `gorm:"not null" json:"entry"`
	StopLoss float64 `json:"stop_loss"`
	Target   float64 `json:"target"`

	EnteredAt  time.Time  `json:"entered_at"`
	ExitTime   *time.Time `json:"exit_time"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason string     `json:"exit_reason"`

	PnL          float64 `gorm:"column:pnl" json:"pnl"`
	HoldingHours float64 `json:"holding_hours"`
	Status       string  `gorm:"not null;default:'open'" json:"status"` // open, closed
}

type DailySummary struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TradingDay     time.Time `gorm:"index" json:"trading_day"`
	Balance        float64   `json:"balance"`
	DailyPnL       float64   `json:"daily_pnl"`
	OpenPositions  int       `json:"open_positions"`
	CallPositions  int       `json:"call_positions"`
	PutPositions   int       `json:"put_positions"`
	SpreadLegs     int       `json:"spread_legs"`
	PositionsJSON  string    `gorm:"type:text" json:"positions_json"`
}
