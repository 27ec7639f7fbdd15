package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		0:          "0\u00a0₫",
		1000:       "1.000\u00a0₫",
		999:        "999\u00a0₫",
		1234567:    "1.234.567\u00a0₫",
		150000.5:   "150.001\u00a0₫",
		-25000:     "-25.000\u00a0₫",
		1000000000: "1.000.000.000\u00a0₫",
		-0.4:       "0\u00a0₫",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(in), "amount %v", in)
	}
}

func TestFormatPrice_BeyondInt64(t *testing.T) {
	assert.Equal(t, "10.000.000.000.000.000.000\u00a0₫", FormatPrice(1e19))
	assert.Equal(t, "-10.000.000.000.000.000.000\u00a0₫", FormatPrice(-1e19))
	assert.Equal(t, "9.223.372.036.854.775.808\u00a0₫", FormatPrice(math.Exp2(63)))
	assert.Equal(t, "-9.223.372.036.854.775.808\u00a0₫", FormatPrice(-math.Exp2(63)))
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "08:30 - 16/07/2025", FormatDateTime("2025-07-16T08:30:00"))
	assert.Equal(t, "08:30 - 16/07/2025", FormatDateTime("2025-07-16T08:30:00.1234567"))
	// 01:30Z is 08:30 in Vietnam
	assert.Equal(t, "08:30 - 16/07/2025", FormatDateTime("2025-07-16T01:30:00Z"))
	assert.Equal(t, "not a date", FormatDateTime("not a date"))
	assert.Equal(t, "", FormatDateTime(""))
}

func TestFormatDateOnly(t *testing.T) {
	assert.Equal(t, "01/02/2026", FormatDateOnly("2026-02-01T23:59:00"))
	assert.Equal(t, "01/02/2026", FormatDateOnly("2026-02-01"))
}

func TestParseTimestamp_NaiveIsWallClock(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	ts, err := ParseTimestamp("2025-07-16T08:30:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 8, ts.Hour())
	assert.Equal(t, time.Date(2025, 7, 16, 1, 30, 0, 0, time.UTC), ts.UTC())
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "Chờ thanh toán", FormatStatus("pending"))
	assert.Equal(t, "Đã thanh toán", FormatStatus("paid"))
	assert.Equal(t, "Đã hủy", FormatStatus("cancelled"))
	assert.Equal(t, "Hoàn thành", FormatStatus("Completed"))
	assert.Equal(t, "Đã lên lịch", FormatStatus("isScheduled"))
	assert.Equal(t, "refunded", FormatStatus("refunded"))
}

func TestAmountInputRoundTrip(t *testing.T) {
	for _, x := range []int64{0, 1000, 10000, 250000, 1000000, 987654000} {
		got, err := ParseAmount(FormatAmountForInput(x))
		require.NoError(t, err)
		assert.Equal(t, x, got)
	}
}

func TestParseAmount(t *testing.T) {
	n, err := ParseAmount("1.500.000\u00a0₫")
	require.NoError(t, err)
	assert.Equal(t, int64(1500000), n)

	_, err = ParseAmount("abc")
	assert.ErrorIs(t, err, ErrAmountEmpty)

	_, err = ParseAmount("99999999999999999999999")
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestValidateTopUpAmount(t *testing.T) {
	assert.NoError(t, ValidateTopUpAmount(10000))
	assert.NoError(t, ValidateTopUpAmount(2500000))
	assert.ErrorIs(t, ValidateTopUpAmount(5000), ErrAmountTooSmall)
	assert.ErrorIs(t, ValidateTopUpAmount(10500), ErrAmountNotRounded)
}
