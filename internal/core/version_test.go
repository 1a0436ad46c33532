package core

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbo-ncu/internal/types"
)

// ---------------------------------------------------------------------------
// ExtractPrefix
// ---------------------------------------------------------------------------

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "^1.2.3", want: "^"},
		{input: "~1.2.3", want: "~"},
		{input: ">=1.0.0", want: ">="},
		{input: "<=1.0.0", want: "<="},
		{input: ">1.0.0", want: ">"},
		{input: "<1.0.0", want: "<"},
		{input: "=1.0.0", want: "="},
		{input: "  ^1.0.0 ", want: "^"},
		{input: "1.2.3", want: ""},
		{input: "1.0.0 - 2.0.0", want: ""},
		{input: "1.0.0 || 2.0.0", want: ""},
		{input: "latest", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ExtractPrefix(tt.input)); diff != "" {
				t.Fatalf("unexpected prefix (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractPrefixRoundTripsOperators(t *testing.T) {
	for _, prefix := range []string{"^", "~", ">=", "<=", ">", "<", "="} {
		for _, version := range []string{"0.0.1", "1.2.3", "10.20.30-beta.1"} {
			assert.Equal(t, prefix, ExtractPrefix(prefix+version), "prefix %q version %q", prefix, version)
		}
	}
}

// ---------------------------------------------------------------------------
// ParseBaseVersion
// ---------------------------------------------------------------------------

func TestParseBaseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "^1.2.3", want: "1.2.3"},
		{input: "~0.5.1", want: "0.5.1"},
		{input: ">=2.0.0", want: "2.0.0"},
		{input: "1.x", want: "1.0.0"},
		{input: "1.2.x", want: "1.2.0"},
		{input: "1.*", want: "1.0.0"},
		{input: "^1.0.0-beta.2", want: "1.0.0-beta.2"},
		{input: "= 3.1.4", want: "3.1.4"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, ok := ParseBaseVersion(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseBaseVersionRejectsRanges(t *testing.T) {
	for _, input := range []string{"", "latest", "*", "1.0.0 - 2.0.0", "1.0.0 || 2.0.0", "^"} {
		t.Run(input, func(t *testing.T) {
			_, ok := ParseBaseVersion(input)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeXRangeKeepsPrerelease(t *testing.T) {
	assert.Equal(t, "1.0.0-beta.x", normalizeXRange("1.0.0-beta.x"))
	assert.Equal(t, "1.0.0", normalizeXRange("1.x.X"))
}

// ---------------------------------------------------------------------------
// ClassifyUpdate
// ---------------------------------------------------------------------------

func TestClassifyUpdate(t *testing.T) {
	tests := []struct {
		current   string
		candidate string
		want      types.UpdateClass
	}{
		{current: "1.0.0", candidate: "2.0.0", want: types.UpdateMajor},
		{current: "1.0.0", candidate: "1.1.0", want: types.UpdateMinor},
		{current: "1.0.0", candidate: "1.0.1", want: types.UpdatePatch},
		{current: "1.0.0-beta.1", candidate: "1.0.0", want: types.UpdatePrerelease},
		{current: "1.0.0", candidate: "1.0.0-rc.1", want: types.UpdatePrerelease},
		{current: "1.0.0", candidate: "1.0.0", want: types.UpdateNone},
	}
	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.candidate, func(t *testing.T) {
			got := ClassifyUpdate(semver.MustParse(tt.current), semver.MustParse(tt.candidate))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected classification (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ConstructNewRange
// ---------------------------------------------------------------------------

func TestConstructNewRange(t *testing.T) {
	tests := []struct {
		original  string
		candidate string
		want      string
	}{
		{original: "^1.0.0", candidate: "2.0.0", want: "^2.0.0"},
		{original: "~1.0.0", candidate: "2.0.0", want: "~2.0.0"},
		{original: ">=1.0.0", candidate: "2.0.0", want: ">=2.0.0"},
		{original: "1.0.0", candidate: "2.0.0", want: "2.0.0"},
		{original: "^1.0.0", candidate: "3.0.0-beta.1", want: "^3.0.0-beta.1"},
		{original: "1.x", candidate: "2.1.0", want: "2.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.original+"->"+tt.candidate, func(t *testing.T) {
			got := ConstructNewRange(tt.original, semver.MustParse(tt.candidate))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected range (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ResolveTargetVersion
// ---------------------------------------------------------------------------

func TestResolveTargetVersion(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		available  []string
		target     types.TargetPolicy
		prerelease bool
		want       string
	}{
		{
			name:      "latest picks maximum",
			current:   "^1.0.0",
			available: []string{"1.0.0", "1.1.0", "2.0.0", "2.1.0"},
			target:    types.TargetLatest,
			want:      "2.1.0",
		},
		{
			name:      "latest ignores registry order",
			current:   "1.0.0",
			available: []string{"2.1.0", "1.0.0", "2.0.0", "1.1.0"},
			target:    types.TargetLatest,
			want:      "2.1.0",
		},
		{
			name:      "minor stays on major",
			current:   "^1.0.0",
			available: []string{"1.0.0", "1.1.0", "1.2.0", "2.0.0"},
			target:    types.TargetMinor,
			want:      "1.2.0",
		},
		{
			name:      "patch stays on minor",
			current:   "^1.0.0",
			available: []string{"1.0.0", "1.0.1", "1.0.2", "1.1.0"},
			target:    types.TargetPatch,
			want:      "1.0.2",
		},
		{
			name:      "semver honours caret range",
			current:   "^1.0.0",
			available: []string{"1.0.0", "1.4.0", "2.0.0"},
			target:    types.TargetSemver,
			want:      "1.4.0",
		},
		{
			name:      "semver honours tilde range",
			current:   "~1.2.0",
			available: []string{"1.2.0", "1.2.5", "1.3.0"},
			target:    types.TargetSemver,
			want:      "1.2.5",
		},
		{
			name:      "prerelease excluded by default",
			current:   "^1.0.0",
			available: []string{"1.0.0", "2.0.0-alpha.1", "2.0.0"},
			target:    types.TargetLatest,
			want:      "2.0.0",
		},
		{
			name:       "prerelease included on request",
			current:    "^1.0.0",
			available:  []string{"1.0.0", "2.0.0", "3.0.0-beta.1"},
			target:     types.TargetLatest,
			prerelease: true,
			want:       "3.0.0-beta.1",
		},
		{
			name:       "release outranks its prerelease",
			current:    "1.0.0",
			available:  []string{"2.0.0-rc.1", "2.0.0"},
			target:     types.TargetLatest,
			prerelease: true,
			want:       "2.0.0",
		},
		{
			name:      "unparseable registry versions skipped",
			current:   "1.0.0",
			available: []string{"garbage", "1.0.1", "v9"},
			target:    types.TargetLatest,
			want:      "1.0.1",
		},
		{
			name:      "leading v on registry version",
			current:   "^1.2.0",
			available: []string{"1.2.0", "v1.3.0"},
			target:    types.TargetLatest,
			want:      "1.3.0",
		},
		{
			name:       "semver prerelease on same tuple",
			current:    "^1.0.0-beta.1",
			available:  []string{"1.0.0-beta.1", "1.0.0-beta.2", "1.5.0-alpha"},
			target:     types.TargetSemver,
			prerelease: true,
			want:       "1.0.0-beta.2",
		},
		{
			name:       "semver prefers release over foreign prerelease",
			current:    "^1.0.0-beta.1",
			available:  []string{"1.0.0-beta.1", "1.2.0", "1.5.0-alpha"},
			target:     types.TargetSemver,
			prerelease: true,
			want:       "1.2.0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTargetVersion(tt.current, tt.available, tt.target, tt.prerelease)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got.String()); diff != "" {
				t.Fatalf("unexpected version (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveTargetVersionNoCandidate(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		available []string
		target    types.TargetPolicy
	}{
		{name: "already latest", current: "^2.1.0", available: []string{"1.0.0", "2.1.0"}, target: types.TargetLatest},
		{name: "empty list", current: "^1.0.0", available: nil, target: types.TargetLatest},
		{name: "no minor within major", current: "^1.2.0", available: []string{"1.2.0", "2.0.0"}, target: types.TargetMinor},
		{name: "no patch within minor", current: "1.2.0", available: []string{"1.2.0", "1.3.0"}, target: types.TargetPatch},
		{name: "unparseable current range", current: "latest", available: []string{"1.0.0"}, target: types.TargetLatest},
		{name: "invalid semver range", current: "1.0.0 ||| nope", available: []string{"2.0.0"}, target: types.TargetSemver},
		{name: "unknown policy", current: "1.0.0", available: []string{"2.0.0"}, target: types.TargetPolicy("greatest")},
		{name: "only prerelease newer", current: "1.0.0", available: []string{"1.0.0", "2.0.0-alpha.1"}, target: types.TargetLatest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ResolveTargetVersion(tt.current, tt.available, tt.target, false)
			assert.False(t, ok)
		})
	}
}

func TestResolveTargetVersionSemverSkipsForeignPrereleases(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		available []string
	}{
		{name: "open range", current: ">=1.0.0-beta.1", available: []string{"1.0.0-beta.1", "2.0.0-alpha"}},
		{name: "caret without prerelease", current: "^1.0.0", available: []string{"1.0.0", "1.1.0-rc.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTargetVersion(tt.current, tt.available, types.TargetSemver, true)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}
