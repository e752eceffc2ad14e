package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateRecord is a single exchange rate published by the rate provider
type RateRecord struct {
	Rate decimal.Decimal `json:"exchange_rate"`
	// RecordDate is the date the provider published Rate. It can precede the
	// requested date when nothing was published on that day.
	RecordDate time.Time `json:"record_date"`
}
