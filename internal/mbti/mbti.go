// Package mbti defines the closed set of MBTI personality codes used as
// council participants. Codes are validated and normalized at every
// external boundary; internal code never carries a free-form string.
package mbti

import (
	"fmt"
	"strings"
)

// Type is one of the 16 fixed MBTI personality codes.
type Type string

const (
	INTJ Type = "INTJ"
	INTP Type = "INTP"
	ENTJ Type = "ENTJ"
	ENTP Type = "ENTP"
	INFJ Type = "INFJ"
	INFP Type = "INFP"
	ENFJ Type = "ENFJ"
	ENFP Type = "ENFP"
	ISTJ Type = "ISTJ"
	ISFJ Type = "ISFJ"
	ESTJ Type = "ESTJ"
	ESFJ Type = "ESFJ"
	ISTP Type = "ISTP"
	ISFP Type = "ISFP"
	ESTP Type = "ESTP"
	ESFP Type = "ESFP"
)

var all = []Type{
	INTJ, INTP, ENTJ, ENTP,
	INFJ, INFP, ENFJ, ENFP,
	ISTJ, ISFJ, ESTJ, ESFJ,
	ISTP, ISFP, ESTP, ESFP,
}

var validSet = func() map[Type]struct{} {
	m := make(map[Type]struct{}, len(all))
	for _, t := range all {
		m[t] = struct{}{}
	}
	return m
}()

// All returns the 16 codes in canonical order.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// Normalize trims and uppercases a raw code candidate.
func Normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// IsValid reports whether value normalizes to one of the 16 codes.
func IsValid(value string) bool {
	_, ok := validSet[Type(Normalize(value))]
	return ok
}

// Parse normalizes and validates a raw code candidate.
func Parse(value string) (Type, error) {
	normalized := Type(Normalize(value))
	if _, ok := validSet[normalized]; !ok {
		return "", fmt.Errorf("invalid MBTI type: %q", value)
	}
	return normalized, nil
}

// ParseList normalizes, deduplicates, and validates a list of raw code
// candidates, preserving first-seen order.
func ParseList(values []string) ([]Type, error) {
	seen := make(map[Type]struct{}, len(values))
	out := make([]Type, 0, len(values))
	for _, v := range values {
		t, err := Parse(v)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
