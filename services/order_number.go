package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
)

// Order number prefixes
const (
	PrefixPOS    = "POS"
	PrefixOnline = "ORD"
)

// NewOrderNumber builds a human-readable order number such as POS-20261018-4F1C2A.
// The date is the business day in IST; the suffix comes from a random UUID.
func NewOrderNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, now.In(pricing.IST).Format("20060102"), suffix)
}
