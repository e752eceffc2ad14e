// Package cache implements the exchange rate cache backends
package cache

import (
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
)

// KeySeparator joins the currency and date parts of a cache key. A currency
// that itself contains the separator can collide with another key; currency
// descriptions from the Treasury API never do.
const KeySeparator = "::"

// BuildKey creates the cache key for a currency on a calendar date
func BuildKey(currency string, date time.Time) string {
	return currency + KeySeparator + entity.TruncateToDate(date).Format(entity.DateLayout)
}
