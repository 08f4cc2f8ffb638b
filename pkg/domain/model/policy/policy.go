package policy

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
)

// Policy is the per-source sync policy loaded from a YAML file: explicit
// destination table overrides and sources to skip entirely.
type Policy struct {
	// TableOverrides maps a source name to an explicit destination table ID.
	// Sources without an override use their sanitized natural name.
	TableOverrides map[string]string `yaml:"table_overrides"`

	// Exclude lists source names that are never synchronized.
	Exclude []string `yaml:"exclude"`
}

// Load reads a policy YAML file. An empty path yields an empty policy.
func Load(path string) (*Policy, error) {
	if path == "" {
		return &Policy{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file",
			goerr.V("path", path),
			goerr.T(errs.TagConfig))
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy file",
			goerr.V("path", path),
			goerr.T(errs.TagConfig))
	}
	return &p, nil
}

// OverrideFor returns the explicit destination table ID for a source, or ""
// when the sanitized natural name should be used.
func (p *Policy) OverrideFor(name types.SourceName) types.TableID {
	if p.TableOverrides == nil {
		return ""
	}
	return types.TableID(p.TableOverrides[name.String()])
}

// IsExcluded reports whether the source is skipped by policy.
func (p *Policy) IsExcluded(name types.SourceName) bool {
	for _, excluded := range p.Exclude {
		if excluded == name.String() {
			return true
		}
	}
	return false
}
