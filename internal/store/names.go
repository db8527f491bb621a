package store

import (
	"fmt"
	"strings"
)

// Name identifies one of the four domains.
type Name string

// Domain names.
const (
	NameResume Name = "resume"
	NameChat   Name = "chat"
	NameEmail  Name = "email"
	NameJobs   Name = "jobs"
)

// Names returns every domain in display order.
func Names() []Name {
	return []Name{NameResume, NameChat, NameEmail, NameJobs}
}

// ParseName parses a domain name case-insensitively.
func ParseName(value string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Names() {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", value)
}
