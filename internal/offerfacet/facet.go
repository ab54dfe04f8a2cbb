// Package offerfacet derives normalized filter facets from the free-text fields
// of an offer. The results are stored on the offer at write time and by the
// one-off backfill; listing never re-derives them.
package offerfacet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"internhub/internal/model"
)

var (
	unpaidPattern = regexp.MustCompile(`(^unpaid\b)|\bno pay\b`)
	amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?\b|\d+(?:[.,]\d+)?`)
	// a comma followed by exactly three digits groups thousands
	groupedAmount = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)

	threeMonths    = regexp.MustCompile(`(^3\b)|\b3\s*months?\b|\b3-months?\b`)
	sixMonths      = regexp.MustCompile(`(^6\b)|\b6\s*months?\b|\b6-months?\b`)
	yearPattern    = regexp.MustCompile(`year|\byr\b|12\s*months|1\s*year`)
	undisclosedPat = regexp.MustCompile(`undisclosed|not specified|n/a|tbd|to be determined`)
	firstInteger   = regexp.MustCompile(`\d+`)
)

// PaymentKind classifies free-text pay information.
func PaymentKind(payment string) model.PaymentKind {
	raw := strings.ToLower(strings.TrimSpace(payment))
	if raw == "" || raw == "unpaid" || unpaidPattern.MatchString(raw) {
		return model.PaymentUnpaid
	}
	return model.PaymentPaid
}

// Stipend extracts the first amount from the payment text. Unpaid offers have no stipend.
func Stipend(payment string) decimal.NullDecimal {
	if PaymentKind(payment) == model.PaymentUnpaid {
		return decimal.NullDecimal{}
	}
	match := amountPattern.FindString(payment)
	if match == "" {
		return decimal.NullDecimal{}
	}
	if groupedAmount.MatchString(match) {
		match = strings.ReplaceAll(match, ",", "")
	} else {
		match = strings.ReplaceAll(match, ",", ".")
	}
	amount, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(amount)
}

// WorkType returns the explicit type when set, otherwise in-office for located offers and remote for the rest.
func WorkType(explicit model.WorkType, location string) model.WorkType {
	if t := model.WorkType(strings.ToLower(strings.TrimSpace(string(explicit)))); t != "" {
		return t
	}
	if strings.TrimSpace(location) != "" {
		return model.WorkTypeInOffice
	}
	return model.WorkTypeRemote
}

// DurationBucket groups a free-text duration.
func DurationBucket(duration string) model.DurationBucket {
	raw := strings.ToLower(strings.TrimSpace(duration))
	switch {
	case raw == "":
		return model.DurationUndisclosed
	case threeMonths.MatchString(raw):
		return model.Duration3Months
	case sixMonths.MatchString(raw):
		return model.Duration6Months
	case yearPattern.MatchString(raw):
		return model.DurationYear
	case undisclosedPat.MatchString(raw):
		return model.DurationUndisclosed
	}

	if digits := firstInteger.FindString(raw); digits != "" {
		n, err := strconv.Atoi(digits)
		if err == nil {
			switch {
			case n >= 12:
				return model.DurationYear
			case n >= 6:
				return model.Duration6Months
			case n >= 3:
				return model.Duration3Months
			}
		}
	}
	return model.DurationUndisclosed
}

// Apply fills every empty facet of the offer from its free-text fields.
// It reports whether anything changed.
func Apply(o *model.Offer) bool {
	changed := false
	if o.Type == "" {
		o.Type = WorkType("", o.Location)
		changed = true
	}
	if o.PaymentKind == "" {
		o.PaymentKind = PaymentKind(o.Payment)
		changed = true
	}
	if !o.Stipend.Valid && o.PaymentKind == model.PaymentPaid {
		if s := Stipend(o.Payment); s.Valid {
			o.Stipend = s
			changed = true
		}
	}
	if o.DurationBucket == "" {
		o.DurationBucket = DurationBucket(o.Duration)
		changed = true
	}
	return changed
}
