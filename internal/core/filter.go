package core

import (
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gobwas/glob"

	"turbo-ncu/internal/types"
)

// NameMatcher reports whether a package name matches a pattern.
type NameMatcher func(name string) bool

// ParseNamePattern compiles a filter pattern. "/expr/" is a regular
// expression, a pattern containing * or ? is a glob, anything else is a
// comma separated list of exact names.
func ParseNamePattern(pattern string) (NameMatcher, error) {
	trimmed := strings.TrimSpace(pattern)
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, "/") && strings.HasSuffix(trimmed, "/") {
		re, err := regexp.Compile(trimmed[1 : len(trimmed)-1])
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid filter regular expression " + trimmed).
				WithCause(err)
		}
		return re.MatchString, nil
	}
	if strings.ContainsAny(trimmed, "*?") {
		// '*' stays within one segment of a scoped name.
		g, err := glob.Compile(trimmed, '/')
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid filter glob " + trimmed).
				WithCause(err)
		}
		return g.Match, nil
	}
	names := map[string]struct{}{}
	for _, name := range strings.Split(trimmed, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names[name] = struct{}{}
		}
	}
	return func(name string) bool {
		_, ok := names[name]
		return ok
	}, nil
}

// ApplyFilters keeps packages matching filter and drops those matching
// reject. Empty patterns are ignored. Input order is preserved.
func ApplyFilters(packages []types.PackageDeclaration, filter string, reject string) ([]types.PackageDeclaration, error) {
	result := packages
	if strings.TrimSpace(filter) != "" {
		match, err := ParseNamePattern(filter)
		if err != nil {
			return nil, err
		}
		result = selectPackages(result, match, true)
	}
	if strings.TrimSpace(reject) != "" {
		match, err := ParseNamePattern(reject)
		if err != nil {
			return nil, err
		}
		result = selectPackages(result, match, false)
	}
	return result, nil
}

func selectPackages(packages []types.PackageDeclaration, match NameMatcher, keep bool) []types.PackageDeclaration {
	out := make([]types.PackageDeclaration, 0, len(packages))
	for _, pkg := range packages {
		if match(pkg.Name) == keep {
			out = append(out, pkg)
		}
	}
	return out
}
