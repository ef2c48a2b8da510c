package loan

import (
	"errors"
	"loan-ledger/internal/pkg/apperrors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errEmptyNumber      = errors.New("empty number")
	errNumberOutOfRange = errors.New("number out of range")
)

var separatorStripper = strings.NewReplacer(",", "", "_", "", " ", "")

// normalizeNumber removes thousands separators so "200,000" and "200 000" parse.
func normalizeNumber(raw string) string {
	return separatorStripper.Replace(strings.TrimSpace(raw))
}

func parseAmount(raw string) (decimal.Decimal, error) {
	s := normalizeNumber(raw)
	if s == "" {
		return decimal.Zero, errEmptyNumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero, errNumberOutOfRange
	}
	return d, nil
}

func parseRate(raw string) (float64, error) {
	s := normalizeNumber(raw)
	if s == "" {
		return 0, errEmptyNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNumberOutOfRange
	}
	return f, nil
}

// parseMonths accepts whole numbers, including "12.0" as sent by some clients.
func parseMonths(raw string) (int, error) {
	s := normalizeNumber(raw)
	if s == "" {
		return 0, errEmptyNumber
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, errors.New("duration must be a whole number of months")
	}
	return int(f), nil
}

// amountError reports an unparsable amount; subject is e.g. "loan amount".
func amountError(subject string, err error) error {
	if errors.Is(err, errNumberOutOfRange) {
		return apperrors.NewValidationError("amount", subject+" is too large")
	}
	return apperrors.NewValidationError("amount", subject+" must be a number")
}
