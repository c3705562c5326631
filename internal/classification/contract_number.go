package classification

import (
	"fmt"
	"regexp"
	"strconv"
)

// contractNumberRe matches tokens such as "U-21-15" or "u-24-103".
var contractNumberRe = regexp.MustCompile(`(?i)U-(\d{2})-(\d{2,3})`)

// ExtractContractNumber returns the first contract-number token in name,
// canonicalised as "U-YY-NN", or "" when there is none.
func ExtractContractNumber(name string) string {
	m := contractNumberRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("U-%s-%s", m[1], m[2])
}

// ParseContractNumber splits a token into its year and sequence parts.
func ParseContractNumber(token string) (year, seq int, ok bool) {
	m := contractNumberRe.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return year, seq, true
}
