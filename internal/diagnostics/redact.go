package diagnostics

import (
	"sort"
	"strings"
)

var sensitiveEnvSubstrings = []string{
	"TOKEN", "KEY", "SECRET", "PASSWORD", "CREDENTIAL",
	"AUTH", "PRIVATE", "API_KEY", "APIKEY",
}

// RedactEnviron returns environment entries as sorted KEY=value lines with
// sensitive values replaced by [REDACTED]. Sorting keeps report output
// stable across captures of the same environment.
func RedactEnviron(environ []string) []string {
	result := make([]string, 0, len(environ))
	for _, env := range environ {
		key, value, found := strings.Cut(env, "=")
		if !found {
			continue
		}
		if isSensitiveEnvKey(key) {
			value = "[REDACTED]"
		}
		result = append(result, key+"="+value)
	}
	sort.Strings(result)
	return result
}

func isSensitiveEnvKey(key string) bool {
	keyUpper := strings.ToUpper(key)
	for _, sensitive := range sensitiveEnvSubstrings {
		if strings.Contains(keyUpper, sensitive) {
			return true
		}
	}
	return false
}
