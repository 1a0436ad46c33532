package types

type DepType string

const (
	DepTypeProd     DepType = "prod"
	DepTypeDev      DepType = "dev"
	DepTypePeer     DepType = "peer"
	DepTypeOptional DepType = "optional"
)

// AllDepTypes lists the manifest sections in the order they are read.
var AllDepTypes = []DepType{DepTypeProd, DepTypeDev, DepTypePeer, DepTypeOptional}

// ManifestSection returns the package.json key holding dependencies of this type.
func (d DepType) ManifestSection() string {
	switch d {
	case DepTypeProd:
		return "dependencies"
	case DepTypeDev:
		return "devDependencies"
	case DepTypePeer:
		return "peerDependencies"
	case DepTypeOptional:
		return "optionalDependencies"
	default:
		return ""
	}
}

type TargetPolicy string

const (
	TargetLatest TargetPolicy = "latest"
	TargetMinor  TargetPolicy = "minor"
	TargetPatch  TargetPolicy = "patch"
	TargetSemver TargetPolicy = "semver"
)

func (p TargetPolicy) Valid() bool {
	switch p {
	case TargetLatest, TargetMinor, TargetPatch, TargetSemver:
		return true
	default:
		return false
	}
}

type UpdateClass string

const (
	UpdateMajor      UpdateClass = "major"
	UpdateMinor      UpdateClass = "minor"
	UpdatePatch      UpdateClass = "patch"
	UpdatePrerelease UpdateClass = "prerelease"
	UpdateNone       UpdateClass = "none"
)
