package device

import (
	"fmt"
	"strings"
)

func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}

func containsString(sgs []string, s string) bool {
	for _, candidate := range sgs {
		if strings.TrimSuffix(candidate, "\x00") == strings.TrimSuffix(s, "\x00") {
			return true
		}
	}
	return false
}
