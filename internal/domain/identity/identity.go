// Package identity derives stable UUIDv5 identifiers for test cases so
// the same test maps to the same id across uploads.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// junitCaseMarker keeps generated ids compatible with ids minted before
// variants existed.
const junitCaseMarker = "JUNIT_TESTCASE"

// Fact names a single test case within an organization and repository.
// ParentPath is the slash-joined path of enclosing suites. Variant is the
// optional execution variant label; empty means none.
type Fact struct {
	OrgSlug      string
	RepoFullName string
	File         string
	Classname    string
	ParentPath   string
	Name         string
	Variant      string
}

func checksumUUID(values []string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(values, "#"))).String()
}

// GenerateBaseID is the single-pass derivation. An existing "trunk:" id is
// hashed together with the org and repo; an existing v5 UUID passes
// through unchanged unless a variant is set, in which case the id is
// re-hashed with the variant. Any other existing id is ignored and the id
// is derived from the fact's field tuple.
func GenerateBaseID(f Fact, existingID string) string {
	hasVariant := f.Variant != ""

	if existingID != "" {
		if strings.HasPrefix(existingID, "trunk:") {
			alt := []string{f.OrgSlug, f.RepoFullName, existingID}
			if hasVariant {
				alt = append(alt, f.Variant)
			}
			return checksumUUID(alt)
		}
		if id, err := uuid.Parse(existingID); err == nil && id.Version() == 5 {
			if hasVariant {
				return checksumUUID([]string{existingID, f.Variant})
			}
			return existingID
		}
	}

	base := []string{
		f.OrgSlug,
		f.RepoFullName,
		f.File,
		f.Classname,
		f.ParentPath,
		f.Name,
		junitCaseMarker,
	}
	if hasVariant {
		base = append(base, f.Variant)
	}
	return checksumUUID(base)
}

// GenerateID derives the id used for uploads. When a variant is set and no
// existing id was supplied, the base derivation runs twice: the first
// result stands in as the existing id so the final id mixes the identity
// with the variant the same way an externally supplied id would.
func GenerateID(f Fact, existingID string) string {
	id := GenerateBaseID(f, existingID)
	if f.Variant == "" || existingID != "" {
		return id
	}
	return GenerateBaseID(f, id)
}
