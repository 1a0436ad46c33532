package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"turbo-ncu/internal/ports"
	"turbo-ncu/internal/types"
)

// PackageJSONAdapter reads and rewrites package.json manifests.
type PackageJSONAdapter struct{}

func NewPackageJSONAdapter() PackageJSONAdapter {
	return PackageJSONAdapter{}
}

var indentPattern = regexp.MustCompile(`(?m)^([ \t]+)"`)

var nonRegistryPrefixes = []string{"file:", "git:", "git+", "github:", "http:", "https:"}

// orderedObject is a JSON object that remembers its key order.
type orderedObject = orderedmap.OrderedMap[string, json.RawMessage]

func (p PackageJSONAdapter) ReadManifest(path string) (types.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if os.IsNotExist(err) {
			code = errbuilder.CodeNotFound
		}
		return types.Manifest{}, errbuilder.New().
			WithCode(code).
			WithMsg(fmt.Sprintf("failed to read package file %s", path)).
			WithCause(err)
	}
	root, err := decodeOrderedObject(raw)
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse package file %s", path)).
			WithCause(err)
	}
	manifest := types.Manifest{
		Path:         path,
		Dependencies: map[types.DepType][]types.ManifestDependency{},
		Raw:          raw,
	}
	if value, ok := root.Get("name"); ok {
		_ = json.Unmarshal(value, &manifest.Name)
	}
	for _, depType := range types.AllDepTypes {
		value, ok := root.Get(depType.ManifestSection())
		if !ok {
			continue
		}
		section, err := decodeOrderedObject(value)
		if err != nil {
			// Sections that are not objects carry no dependencies.
			continue
		}
		for pair := section.Oldest(); pair != nil; pair = pair.Next() {
			var rng string
			if err := json.Unmarshal(pair.Value, &rng); err != nil {
				continue
			}
			manifest.Dependencies[depType] = append(manifest.Dependencies[depType], types.ManifestDependency{Name: pair.Key, Range: rng})
		}
	}
	return manifest, nil
}

// ExtractPackages flattens the selected sections of manifest in section
// order, skipping ranges that do not resolve through a registry.
func ExtractPackages(manifest types.Manifest, depTypes []types.DepType) []types.PackageDeclaration {
	var packages []types.PackageDeclaration
	for _, depType := range depTypes {
		for _, dep := range manifest.Dependencies[depType] {
			if !isRegistryRange(dep.Range) {
				continue
			}
			packages = append(packages, types.PackageDeclaration{
				Name:         dep.Name,
				VersionRange: dep.Range,
				DepType:      depType,
			})
		}
	}
	return packages
}

func isRegistryRange(rng string) bool {
	for _, prefix := range nonRegistryPrefixes {
		if strings.HasPrefix(rng, prefix) {
			return false
		}
	}
	return !strings.Contains(rng, "/")
}

// ParseDepTypes accepts repeated or comma separated dependency types.
// Unknown values are ignored; an empty selection means all types.
func ParseDepTypes(values []string) []types.DepType {
	var result []types.DepType
	seen := map[types.DepType]bool{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			depType := types.DepType(strings.TrimSpace(part))
			if depType.ManifestSection() == "" || seen[depType] {
				continue
			}
			seen[depType] = true
			result = append(result, depType)
		}
	}
	if len(result) == 0 {
		return append([]types.DepType(nil), types.AllDepTypes...)
	}
	return result
}

// WriteUpdates sets each record's new range in the section matching its
// dependency type. Keys missing from the file are left alone. Key order,
// indentation and the trailing newline of the file are kept.
func (p PackageJSONAdapter) WriteUpdates(path string, updates []types.UpdateRecord) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read package file %s", path)).
			WithCause(err)
	}
	output, err := applyManifestUpdates(raw, updates)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, output, mode); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write package file %s", path)).
			WithCause(err)
	}
	return nil
}

func applyManifestUpdates(raw []byte, updates []types.UpdateRecord) ([]byte, error) {
	root, err := decodeOrderedObject(raw)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse package file").
			WithCause(err)
	}
	sections := map[string]*orderedObject{}
	for _, update := range updates {
		key := update.DepType.ManifestSection()
		if key == "" {
			continue
		}
		section, ok := sections[key]
		if !ok {
			value, present := root.Get(key)
			if !present {
				continue
			}
			decoded, err := decodeOrderedObject(value)
			if err != nil {
				continue
			}
			section = decoded
			sections[key] = section
		}
		if _, exists := section.Get(update.Name); !exists {
			continue
		}
		encoded, err := encodeJSON(update.NewRange)
		if err != nil {
			return nil, err
		}
		section.Set(update.Name, encoded)
	}
	for key, section := range sections {
		encoded, err := encodeOrderedObject(section)
		if err != nil {
			return nil, err
		}
		root.Set(key, encoded)
	}
	compact, err := encodeOrderedObject(root)
	if err != nil {
		return nil, err
	}

	indent := "  "
	if match := indentPattern.FindSubmatch(raw); match != nil {
		indent = string(match[1])
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to format package file").
			WithCause(err)
	}
	if bytes.HasSuffix(raw, []byte("\n")) {
		out.WriteByte('\n')
	}
	return out.Bytes(), nil
}

// decodeOrderedObject parses data as a single JSON object, keeping member
// order and the raw bytes of every value.
func decodeOrderedObject(data []byte) (*orderedObject, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("expected JSON object")
	}
	obj := orderedmap.New[string, json.RawMessage]()
	if err := obj.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return obj, nil
}

// encodeOrderedObject writes obj compactly in member order. HTML
// characters stay literal so ranges such as ">=1.0.0" keep their form.
func encodeOrderedObject(obj *orderedObject) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := encodeJSON(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

var _ ports.ManifestPort = PackageJSONAdapter{}
