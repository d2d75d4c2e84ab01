// Package jobhash produces short deterministic fingerprints of job
// postings so equivalent postings can be matched in the session cache.
package jobhash

import (
	"strconv"
	"strings"
)

// Hash fingerprints a job posting from its description, title and
// company. Inputs are lowercased and trimmed first, so equivalent
// postings that differ only in case or surrounding whitespace map to
// the same value. This is a dedup hint, not a cryptographic identity.
func Hash(description, title, company string) string {
	normalized := normalize(title) + "_" + normalize(company) + "_" + normalize(description)

	var h int32
	for _, ch := range normalized {
		h = h<<5 - h + ch
	}

	return strconv.FormatUint(uint64(uint32(h)), 36)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
