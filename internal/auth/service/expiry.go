package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// ParseExpiry parses token lifetimes such as "30s", "15m", "24h" or "7d". A bare
// number is read as seconds. The result must be positive.
func ParseExpiry(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, apperrors.Wrap(apperrors.ErrConfiguration, "token expiry is empty")
	}

	unit := time.Second
	number := value
	switch value[len(value)-1] {
	case 's':
		number = value[:len(value)-1]
	case 'm':
		unit = time.Minute
		number = value[:len(value)-1]
	case 'h':
		unit = time.Hour
		number = value[:len(value)-1]
	case 'd':
		unit = 24 * time.Hour
		number = value[:len(value)-1]
	}

	n, err := strconv.ParseInt(number, 10, 64)
	if err != nil || n <= 0 || n > math.MaxInt64/int64(unit) {
		return 0, apperrors.Wrapf(apperrors.ErrConfiguration, "invalid token expiry %q", value)
	}

	return time.Duration(n) * unit, nil
}
