package models

import "time"

// Trade position types.
const (
	PositionLong  = "long"
	PositionShort = "short"
)

// Trade record types. Legacy rows created before the trade_type column
// existed have an empty value and are re-tagged at read time by the
// ledger classifier.
const (
	TradeTypeRegular    = "regular"
	TradeTypeProfitOnly = "profit_only"
)

// Trade is one ledger row owned by a single user. For a regular long
// position buy_price/buy_date are the entry leg and sell_price/sell_date
// the exit leg; for a short position sell_price/sell_date carry the
// short-sale (entry) leg and buy_price/buy_date the cover (exit) leg.
// Profit-only rows store the bare profit figure in sell_price with
// shares=1, buy_price=0 and buy_date=sell_date.
type Trade struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`

	Symbol string `gorm:"type:varchar(10);not null"`
	Shares int    `gorm:"not null"`

	BuyPrice float64   `gorm:"type:numeric(12,2);not null"`
	BuyDate  time.Time `gorm:"type:date;not null"`

	SellPrice *float64   `gorm:"type:numeric(12,2)"`
	SellDate  *time.Time `gorm:"type:date"`

	PositionType string `gorm:"type:varchar(10);not null;default:'long'"`
	TradeType    string `gorm:"type:varchar(20);index"`

	Notes string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Trade) TableName() string {
	return "trades"
}
