// Package yaml reads task manifests describing what to rent and what to run.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Parser interface {
	Parse(yamlFile []byte) error
	GetConfig() *TaskManifest
}

type ParserYamlV1 struct {
	config ManifestV1
}

func (p *ParserYamlV1) Parse(yamlFile []byte) error {
	var manifest ManifestV1
	if err := yaml.UnmarshalStrict(yamlFile, &manifest); err != nil {
		return err
	}
	p.config = manifest
	return nil
}

func (p *ParserYamlV1) GetConfig() *TaskManifest {
	return p.config.toManifest()
}

type Version struct {
	Version string `yaml:"version"`
}

func getYAMLFileVersion(yamlFile []byte) (string, error) {
	var version Version
	err := yaml.Unmarshal(yamlFile, &version)
	if err != nil {
		return "", err
	}
	return version.Version, nil
}

func ParseManifest(yamlFile []byte) (*TaskManifest, error) {
	version, err := getYAMLFileVersion(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed read manifest version, %w", err)
	}

	var parser Parser
	switch version {
	case "1.0", "1":
		parser = &ParserYamlV1{}
	default:
		return nil, fmt.Errorf("not support manifest version: %q", version)
	}
	if err = parser.Parse(yamlFile); err != nil {
		return nil, fmt.Errorf("failed unable to parse manifest, %w", err)
	}
	manifest := parser.GetConfig()
	if err = manifest.check(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func HandlerYaml(yamlFilePath string) (*TaskManifest, error) {
	yamlFile, err := os.ReadFile(yamlFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed unable to read file, %w", err)
	}
	return ParseManifest(yamlFile)
}
