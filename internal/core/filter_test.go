package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"turbo-ncu/internal/types"
)

func filterFixture() []types.PackageDeclaration {
	return []types.PackageDeclaration{
		{Name: "react", VersionRange: "^18.0.0", DepType: types.DepTypeProd},
		{Name: "react-dom", VersionRange: "^18.0.0", DepType: types.DepTypeProd},
		{Name: "@types/node", VersionRange: "^20.0.0", DepType: types.DepTypeDev},
		{Name: "@types/react", VersionRange: "^18.0.0", DepType: types.DepTypeDev},
		{Name: "lodash", VersionRange: "^4.17.0", DepType: types.DepTypeProd},
	}
}

func packageNames(packages []types.PackageDeclaration) []string {
	names := make([]string, 0, len(packages))
	for _, pkg := range packages {
		names = append(names, pkg.Name)
	}
	return names
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		reject string
		want   []string
	}{
		{name: "no patterns", want: []string{"react", "react-dom", "@types/node", "@types/react", "lodash"}},
		{name: "exact list", filter: "lodash, react", want: []string{"react", "lodash"}},
		{name: "glob", filter: "@types/*", want: []string{"@types/node", "@types/react"}},
		{name: "regex", filter: "/^react/", want: []string{"react", "react-dom"}},
		{name: "reject glob", reject: "@types/*", want: []string{"react", "react-dom", "lodash"}},
		{name: "filter then reject", filter: "/react/", reject: "react-dom", want: []string{"react", "@types/react"}},
		{name: "question mark glob", filter: "react-do?", want: []string{"react-dom"}},
		{name: "star stops at scope separator", filter: "*", want: []string{"react", "react-dom", "lodash"}},
		{name: "reject star keeps scoped", reject: "*", want: []string{"@types/node", "@types/react"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyFilters(filterFixture(), tt.filter, tt.reject)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, packageNames(got)); diff != "" {
				t.Fatalf("unexpected packages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyFiltersInvalidRegex(t *testing.T) {
	_, err := ApplyFilters(filterFixture(), "/[/", "")
	require.Error(t, err)
	if diff := cmp.Diff(errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err)); diff != "" {
		t.Fatalf("unexpected error code (-want +got):\n%s", diff)
	}
}
