package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const MaxNameLen = 100

var reID = regexp.MustCompile(`^[0-9]{1,19}$`)

// ID validates a path identifier and returns it as a positive int64.
func ID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reID.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Name trims and enforces a non-empty name with a max length in runes.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxNameLen {
		return "", false
	}
	return s, true
}

func Price(d decimal.Decimal) bool {
	return !d.IsNegative()
}
