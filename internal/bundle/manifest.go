package bundle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed content of a bundle's YAML manifest sidecar.
type Manifest struct {
	FileVersion  int         `yaml:"ManifestFileVersion" json:"fileVersion"`
	CRC          uint32      `yaml:"CRC" json:"crc"`
	Hashes       Hashes      `yaml:"Hashes" json:"hashes"`
	HashAppended int         `yaml:"HashAppended" json:"hashAppended"`
	ClassTypes   []ClassType `yaml:"ClassTypes" json:"classTypes,omitempty"`
	Assets       []string    `yaml:"Assets" json:"assets,omitempty"`
	Dependencies []string    `yaml:"Dependencies" json:"dependencies,omitempty"`

	// Index is set only on the root manifest written next to the output folder.
	Index *Index `yaml:"AssetBundleManifest" json:"index,omitempty"`
}

// Hashes holds the content hashes recorded by the build.
type Hashes struct {
	AssetFileHash Hash `yaml:"AssetFileHash" json:"assetFileHash"`
	TypeTreeHash  Hash `yaml:"TypeTreeHash" json:"typeTreeHash"`
}

// Hash is a versioned hex digest.
type Hash struct {
	SerializedVersion int    `yaml:"serializedVersion" json:"serializedVersion"`
	Hash              string `yaml:"Hash" json:"hash"`
}

// ClassType is one serialized class referenced by the bundle.
type ClassType struct {
	Class  int            `yaml:"Class" json:"class"`
	Script map[string]any `yaml:"Script" json:"script,omitempty"`
}

// Index lists every bundle of a build with its dependencies.
type Index struct {
	Infos map[string]IndexEntry `yaml:"AssetBundleInfos" json:"infos"`
}

// IndexEntry is one bundle in the root manifest index.
type IndexEntry struct {
	Name         string            `yaml:"Name" json:"name"`
	Dependencies map[string]string `yaml:"Dependencies" json:"dependencies,omitempty"`
}

// IsRoot reports whether the manifest is a build's root index.
func (m *Manifest) IsRoot() bool {
	return m.Index != nil
}

// ParseManifest decodes manifest sidecar content.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// ReadManifest reads and decodes a manifest sidecar file.
func ReadManifest(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}
