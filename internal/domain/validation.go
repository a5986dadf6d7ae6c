package domain

import (
	"encoding/base64"
	"sort"
	"strings"
)

// ValidationErrors maps field names to human-readable messages. A request
// failing validation has no side effects.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// ValidDataURI reports whether s is a self-describing base64 data URI such as
// "data:image/png;base64,iVBOR...". Payloads are stored and returned verbatim,
// so this is the only place the encoding is ever inspected.
func ValidDataURI(s string) bool {
	if !strings.HasPrefix(s, "data:") {
		return false
	}
	idx := strings.Index(s, ",")
	if idx < 0 {
		return false
	}
	meta, payload := s[5:idx], s[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(payload)
	return err == nil
}
