package config

import (
	"log"
	"strings"
)

// Missing returns the names whose value is blank. Arguments come in
// name, value pairs; a trailing name without a value counts as missing.
func Missing(pairs ...string) []string {
	var out []string
	for i := 0; i < len(pairs); i += 2 {
		if i+1 >= len(pairs) || strings.TrimSpace(pairs[i+1]) == "" {
			out = append(out, pairs[i])
		}
	}
	return out
}

// MustNonEmpty stops the process when a required setting is blank.
func MustNonEmpty(value, envName string) {
	if m := Missing(envName, value); len(m) > 0 {
		log.Fatalf("config: required env %s is empty", strings.Join(m, ", "))
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	MustNonEmpty(string(value), envName)
}
