package types

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectConfig mirrors the keys accepted in .ncurc files. Nil fields were
// not set by the file.
type ProjectConfig struct {
	Upgrade     *bool      `yaml:"upgrade"`
	Target      *string    `yaml:"target"`
	Filter      *string    `yaml:"filter"`
	Reject      *string    `yaml:"reject"`
	Dep         StringList `yaml:"dep"`
	CacheFile   *string    `yaml:"cacheFile"`
	CacheTTL    *int       `yaml:"cacheTtl"`
	Concurrency *int       `yaml:"concurrency"`
	Registry    *string    `yaml:"registry"`
	Pre         *bool      `yaml:"pre"`
	JSON        *bool      `yaml:"json"`
	JSONAll     *bool      `yaml:"jsonAll"`
	Timeout     *int       `yaml:"timeout"`
	ErrorLevel  *int       `yaml:"errorLevel"`
	PackageFile *string    `yaml:"packageFile"`
}

// StringList accepts either a scalar ("prod,dev") or a sequence.
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*l = nil
			return nil
		}
		*l = StringList{raw}
		return nil
	default:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
}
