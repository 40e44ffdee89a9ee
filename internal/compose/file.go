package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chstack/internal/errors"
)

// File is a minimal model of a compose file: just enough to verify that
// the configured service is declared and to show its ports. The compose
// file remains authoritative for the orchestrator; this parse is
// advisory only and never feeds back into the generated commands.
type File struct {
	Services map[string]Service   `yaml:"services"`
	Volumes  map[string]yaml.Node `yaml:"volumes"`
}

// Service is the subset of a compose service definition this layer reads.
type Service struct {
	Image   string            `yaml:"image"`
	Restart string            `yaml:"restart"`
	Ports   []string          `yaml:"ports"`
	Volumes []string          `yaml:"volumes"`
	EnvFile StringList        `yaml:"env_file"`
	Ulimits map[string]Ulimit `yaml:"ulimits"`
}

// Ulimit models a compose ulimit entry, which is either a single number
// or a soft/hard pair.
type Ulimit struct {
	Soft int64
	Hard int64
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (u *Ulimit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var n int64
		if err := value.Decode(&n); err != nil {
			return err
		}
		u.Soft, u.Hard = n, n
		return nil
	}

	var pair struct {
		Soft int64 `yaml:"soft"`
		Hard int64 `yaml:"hard"`
	}
	if err := value.Decode(&pair); err != nil {
		return err
	}
	u.Soft, u.Hard = pair.Soft, pair.Hard
	return nil
}

// StringList accepts a YAML scalar or sequence of strings. Compose allows
// both forms for env_file.
type StringList []string

// UnmarshalYAML implements the scalar-or-sequence decoding.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*s = []string{single}
		return nil
	}

	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// LoadFile reads and parses a compose file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrComposeFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse compose file %s: %w", path, err)
	}

	return &f, nil
}

// HasService reports whether the named service is declared.
func (f *File) HasService(name string) bool {
	_, ok := f.Services[name]
	return ok
}

// ServiceNames returns the declared service names in no particular order.
func (f *File) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	return names
}

// Verify checks that the descriptor's compose file exists and, when a
// service is configured, that the file declares it.
func Verify(desc Descriptor) error {
	f, err := LoadFile(desc.File)
	if err != nil {
		return err
	}

	if desc.Service != "" && !f.HasService(desc.Service) {
		return fmt.Errorf("%w: %s (declared: %v)", errors.ErrServiceNotDeclared, desc.Service, f.ServiceNames())
	}

	return nil
}
