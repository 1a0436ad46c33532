package types

// PackageDeclaration is one declared dependency of a manifest. DepType is
// carried through to the update record untouched.
type PackageDeclaration struct {
	Name         string
	VersionRange string
	DepType      DepType
}

// RegistryVersionInfo holds the published version keys for a package.
type RegistryVersionInfo struct {
	PackageName string
	Versions    []string
}

// FetchResult is the outcome of fetching a single package. Exactly one of
// Info or Err is set.
type FetchResult struct {
	Info RegistryVersionInfo
	Err  error
}
