package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"turbo-ncu/internal/types"
)

// rangePrefixes is ordered so that two-character operators win over their
// one-character prefixes.
var rangePrefixes = []string{">=", "<=", "^", "~", ">", "<", "="}

// ExtractPrefix returns the leading operator of a range expression. Hyphen
// ranges, OR-ranges and bare versions have no prefix.
func ExtractPrefix(rangeStr string) string {
	trimmed := strings.TrimSpace(rangeStr)
	for _, prefix := range rangePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return prefix
		}
	}
	return ""
}

// ParseBaseVersion strips the range prefix and parses the remaining
// version, reading x-range wildcards as zero ("1.x" is 1.0.0).
func ParseBaseVersion(rangeStr string) (*semver.Version, bool) {
	trimmed := strings.TrimSpace(rangeStr)
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, ExtractPrefix(trimmed)))
	if trimmed == "" {
		return nil, false
	}
	v, err := semver.NewVersion(normalizeXRange(trimmed))
	if err != nil {
		return nil, false
	}
	return v, true
}

// normalizeXRange rewrites wildcard minor and patch components of the
// version core. The prerelease and build parts are left alone.
func normalizeXRange(value string) string {
	core, rest := value, ""
	if idx := strings.IndexAny(value, "-+"); idx >= 0 {
		core, rest = value[:idx], value[idx:]
	}
	parts := strings.Split(core, ".")
	for i := 1; i < len(parts); i++ {
		switch parts[i] {
		case "x", "X", "*":
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ".") + rest
}

// ClassifyUpdate reports the most significant component that increases
// from current to candidate.
func ClassifyUpdate(current *semver.Version, candidate *semver.Version) types.UpdateClass {
	switch {
	case candidate.Major() > current.Major():
		return types.UpdateMajor
	case candidate.Minor() > current.Minor():
		return types.UpdateMinor
	case candidate.Patch() > current.Patch():
		return types.UpdatePatch
	case candidate.Prerelease() != "" || current.Prerelease() != "":
		return types.UpdatePrerelease
	default:
		return types.UpdateNone
	}
}

// ConstructNewRange reapplies the prefix of originalRange to candidate.
func ConstructNewRange(originalRange string, candidate *semver.Version) string {
	version := fmt.Sprintf("%d.%d.%d", candidate.Major(), candidate.Minor(), candidate.Patch())
	if pre := candidate.Prerelease(); pre != "" {
		version += "-" + pre
	}
	return ExtractPrefix(originalRange) + version
}

// ResolveTargetVersion picks the newest version allowed by target that is
// strictly greater than the base version of currentRange.
func ResolveTargetVersion(currentRange string, available []string, target types.TargetPolicy, includePrerelease bool) (*semver.Version, bool) {
	current, ok := ParseBaseVersion(currentRange)
	if !ok {
		return nil, false
	}
	candidates := parseAvailable(available, includePrerelease)

	var accept func(v *semver.Version) bool
	switch target {
	case types.TargetLatest:
		if len(candidates) == 0 {
			return nil, false
		}
		latest := candidates[len(candidates)-1]
		if !latest.GreaterThan(current) {
			return nil, false
		}
		return latest, true
	case types.TargetMinor:
		accept = func(v *semver.Version) bool {
			return v.Major() == current.Major()
		}
	case types.TargetPatch:
		accept = func(v *semver.Version) bool {
			return v.Major() == current.Major() && v.Minor() == current.Minor()
		}
	case types.TargetSemver:
		constraint, err := semver.NewConstraint(strings.TrimSpace(currentRange))
		if err != nil {
			return nil, false
		}
		tuples := prereleaseTuples(currentRange)
		accept = func(v *semver.Version) bool {
			if v.Prerelease() != "" && !tuples[tupleOf(v)] {
				return false
			}
			return constraint.Check(v)
		}
	default:
		return nil, false
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		v := candidates[i]
		if accept(v) && v.GreaterThan(current) {
			return v, true
		}
	}
	return nil, false
}

// prereleaseTuples collects the major.minor.patch of every comparator in
// rangeStr that carries a prerelease tag. A prerelease candidate satisfies
// a range only when it shares one of these tuples.
func prereleaseTuples(rangeStr string) map[string]bool {
	tuples := map[string]bool{}
	for _, field := range strings.FieldsFunc(rangeStr, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '|' || r == ','
	}) {
		v, ok := ParseBaseVersion(field)
		if ok && v.Prerelease() != "" {
			tuples[tupleOf(v)] = true
		}
	}
	return tuples
}

func tupleOf(v *semver.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// parseAvailable parses registry versions, tolerating a leading "v", drops
// unparseable entries and, unless includePrerelease is set, prereleases.
// The result is ascending.
func parseAvailable(available []string, includePrerelease bool) []*semver.Version {
	parsed := make([]*semver.Version, 0, len(available))
	for _, raw := range available {
		v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
		if err != nil {
			continue
		}
		if !includePrerelease && v.Prerelease() != "" {
			continue
		}
		parsed = append(parsed, v)
	}
	sort.Sort(semver.Collection(parsed))
	return parsed
}
