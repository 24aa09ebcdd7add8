package hooks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RecipientsFile is the YAML layout of HOOKS_FILE:
//
//	recipients:
//	  - http://localhost:10100/
type RecipientsFile struct {
	Recipients []string `yaml:"recipients"`
}

// LoadRecipients reads the recipient list from a YAML file.
func LoadRecipients(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipients file: %w", err)
	}
	var f RecipientsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing recipients file %s: %w", path, err)
	}
	return f.Recipients, nil
}

// Register adds every url, stopping at the first invalid one.
func (d *Dispatcher) Register(urls ...string) error {
	for _, url := range urls {
		if err := d.AddRecipient(url); err != nil {
			return fmt.Errorf("recipient %q: %w", url, err)
		}
	}
	return nil
}
