package types

// Manifest is a parsed package.json. Dependencies keep document order per
// section; Raw holds the original bytes for rewriting.
type Manifest struct {
	Path         string
	Name         string
	Dependencies map[DepType][]ManifestDependency
	Raw          []byte
}

type ManifestDependency struct {
	Name  string
	Range string
}
