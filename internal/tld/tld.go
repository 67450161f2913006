// Package tld holds a static registry of recognized top-level domain labels,
// derived from the IANA list at https://data.iana.org/TLD/tlds-alpha-by-domain.txt.
// It exists to classify a token as "likely a domain name" without a full
// DNS-syntax validator: an unlisted or brand-new TLD is simply not matched.
package tld

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed tlds-alpha-by-domain.txt
var registryData string

var (
	once     sync.Once
	registry map[string]struct{}
)

func load() {
	registry = make(map[string]struct{})
	for _, line := range strings.Split(registryData, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		registry[strings.ToLower(line)] = struct{}{}
	}
}

// Valid reports whether label is a recognized top-level domain. The check
// is case-insensitive.
func Valid(label string) bool {
	once.Do(load)
	_, ok := registry[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// Count returns the number of labels in the registry.
func Count() int {
	once.Do(load)
	return len(registry)
}
