package fetcher

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// flexCount decodes counters that upstream APIs return either as plain
// numbers or as shorthand strings like "1.2M" or "5K".
type flexCount int64

func (f *flexCount) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := n.Int64()
		if err != nil {
			fv, ferr := n.Float64()
			if ferr != nil {
				return ferr
			}
			v = int64(math.Round(fv))
		}
		*f = flexCount(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := parseShorthand(s)
	if err != nil {
		return err
	}
	*f = flexCount(v)
	return nil
}

func parseShorthand(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	multiplier := float64(1)
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		multiplier = 1_000
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "B"), strings.HasSuffix(s, "b"):
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(v * multiplier)), nil
}

// classifyStatus maps an upstream HTTP status to an error kind.
func classifyStatus(code int) ErrorKind {
	switch {
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return KindAuthError
	case code >= 500:
		return KindServerError
	default:
		return KindServerError
	}
}
