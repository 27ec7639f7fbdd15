// Package format holds the display helpers shared by every screen of the
// booking app: VND prices, the fixed "HH:MM - DD/MM/YYYY" timestamp layout,
// status labels and wallet amount input.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

const nbsp = "\u00a0"

// CurrencySymbol is appended to every formatted price.
const CurrencySymbol = "₫"

var (
	locMu           sync.RWMutex
	displayLocation = time.FixedZone("ICT", 7*60*60)
)

// SetLocation changes the zone naive backend timestamps are read in.
func SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	locMu.Lock()
	displayLocation = loc
	locMu.Unlock()
}

// Location returns the zone used for parsing and display.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return displayLocation
}

// FormatPrice renders an amount the way vi-VN currency formatting does:
// whole dong, "." thousands separator, non-breaking space, then the symbol.
// Amounts beyond the int64 range keep every digit.
func FormatPrice(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	rounded := math.Round(amount)
	if rounded == 0 {
		return "0" + nbsp + CurrencySymbol
	}
	if math.Abs(rounded) < 1<<63 {
		return groupThousands(int64(rounded)) + nbsp + CurrencySymbol
	}
	return groupDigits(strconv.FormatFloat(rounded, 'f', 0, 64)) + nbsp + CurrencySymbol
}

func groupThousands(n int64) string {
	return groupDigits(strconv.FormatInt(n, 10))
}

// groupDigits inserts "." every three digits of a decimal integer string.
func groupDigits(s string) string {
	digits := strings.TrimPrefix(s, "-")

	var b strings.Builder
	if len(digits) < len(s) {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads backend timestamps. Values carrying an offset are
// converted into loc; naive values are taken as wall-clock time in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if loc == nil {
		loc = Location()
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// FormatDateTime renders "HH:MM - DD/MM/YYYY". Unparseable input is returned as is.
func FormatDateTime(iso string) string {
	t, err := ParseTimestamp(iso, Location())
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%02d:%02d - %02d/%02d/%04d", t.Hour(), t.Minute(), t.Day(), int(t.Month()), t.Year())
}

// FormatDateOnly renders "DD/MM/YYYY". Unparseable input is returned as is.
func FormatDateOnly(iso string) string {
	t, err := ParseTimestamp(iso, Location())
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

var statusLabels = map[string]string{
	"pending":     "Chờ thanh toán",
	"paid":        "Đã thanh toán",
	"cancelled":   "Đã hủy",
	"completed":   "Hoàn thành",
	"isscheduled": "Đã lên lịch",
}

// FormatStatus maps a status code to its display label; unknown codes pass through.
func FormatStatus(code string) string {
	if label, ok := statusLabels[strings.ToLower(strings.TrimSpace(code))]; ok {
		return label
	}
	return code
}

// FormatAmountForInput groups digits for the wallet amount field ("1.000.000").
func FormatAmountForInput(amount int64) string {
	return groupThousands(amount)
}

var (
	ErrAmountEmpty      = errors.New("amount is empty")
	ErrAmountOverflow   = errors.New("amount is too large")
	ErrAmountTooSmall   = errors.New("amount is below the minimum top-up")
	ErrAmountNotRounded = errors.New("amount must be a multiple of 1000")
)

// ParseAmount keeps only the digits of user input and returns their value.
func ParseAmount(input string) (int64, error) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, ErrAmountEmpty
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, ErrAmountOverflow
	}
	return n, nil
}

// MinTopUpAmount is the smallest accepted wallet top-up, in dong.
const MinTopUpAmount int64 = 10000

// ValidateTopUpAmount enforces the wallet top-up rules.
func ValidateTopUpAmount(amount int64) error {
	if amount < MinTopUpAmount {
		return ErrAmountTooSmall
	}
	if amount%1000 != 0 {
		return ErrAmountNotRounded
	}
	return nil
}
