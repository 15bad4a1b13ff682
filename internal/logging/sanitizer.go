package logging

import "regexp"

// Log lines from this tool routinely quote environment values, report
// snippets, and config paths. Anything that looks like a credential is
// replaced before a record reaches a handler.
var secretPatterns = compilePatterns(
	// Hosting and chat platform tokens.
	`gh[pous]_[A-Za-z0-9]{36}`,
	`xox[baprs]-[0-9a-zA-Z-]{10,}`,
	// Cloud credentials.
	`AKIA[0-9A-Z]{16}`,
	`(?i)aws[_-]?secret[_-]?access[_-]?key["'\s:=]+[A-Za-z0-9/+=]{40}`,
	// Assignments of the usual secret-bearing names.
	`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
	`(?i)api[_-]?key["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	`(?i)secret["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	`(?i)token["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	`(?i)password["'\s:=]+[^\s"']{8,}`,
	// Key material pasted whole.
	`-----BEGIN [A-Z ]*PRIVATE KEY-----`,
)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Sanitizer redacts credential-shaped substrings from log text. The default
// pattern set is shared; AddPattern extends a single instance.
type Sanitizer struct {
	extra    []*regexp.Regexp
	redacted string
}

// NewSanitizer returns a sanitizer with the default pattern set.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{redacted: "[REDACTED]"}
}

// AddPattern registers an additional regular expression to redact.
func (s *Sanitizer) AddPattern(expr string) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		return err
	}
	s.extra = append(s.extra, re)
	return nil
}

// Sanitize returns input with every secret match replaced.
func (s *Sanitizer) Sanitize(input string) string {
	for _, re := range secretPatterns {
		input = re.ReplaceAllString(input, s.redacted)
	}
	for _, re := range s.extra {
		input = re.ReplaceAllString(input, s.redacted)
	}
	return input
}

// SanitizeMap redacts string values in a map, descending into nested maps
// and slices.
func (s *Sanitizer) SanitizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = s.sanitizeValue(v)
	}
	return out
}

func (s *Sanitizer) sanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return s.Sanitize(val)
	case map[string]interface{}:
		return s.SanitizeMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = s.sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}
