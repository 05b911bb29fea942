package profile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"logagrip/internal/domain"
	"logagrip/internal/store"
)

// Label is the region title of the profile list
const Label = "Profiles"

// Store holds the known profiles in file order
type Store = store.Repository[domain.ProfileName]

// NewStore creates a profile store holding names
func NewStore(names ...domain.ProfileName) *Store {
	return store.NewRepository(Label, names...)
}

// DefaultConfigPath returns ~/.aws/config, honouring AWS_CONFIG_FILE
func DefaultConfigPath() (string, error) {
	if p := os.Getenv("AWS_CONFIG_FILE"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &domain.ConfigurationError{Resource: "home directory", Err: err}
	}
	return filepath.Join(home, ".aws", "config"), nil
}

// Parse returns the profile names of every section header, in file order.
// "[profile name]" and "[name]" both name the profile "name".
func Parse(r io.Reader) ([]domain.ProfileName, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowNestedValues:       true,
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
	}, io.NopCloser(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var names []domain.ProfileName
	for _, section := range f.SectionStrings() {
		if section == ini.DefaultSection {
			continue
		}
		name := strings.TrimPrefix(strings.TrimSpace(section), "profile ")
		names = append(names, domain.ProfileName(strings.TrimSpace(name)))
	}
	return names, nil
}

// LoadFile reads the profiles of an AWS shared config file
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ConfigurationError{Resource: "aws config " + path, Err: err}
	}
	defer f.Close()

	names, err := Parse(f)
	if err != nil {
		return nil, &domain.ConfigurationError{Resource: "aws config " + path, Err: err}
	}
	return NewStore(names...), nil
}
