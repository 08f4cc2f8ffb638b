package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/policy"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yml")
	data := []byte(`
table_overrides:
  "Sales 2024": sales_current
exclude:
  - Scratch
  - Notes
`)
	gt.NoError(t, os.WriteFile(path, data, 0600))

	p := gt.R1(policy.Load(path)).NoError(t)
	gt.Equal(t, p.OverrideFor(types.SourceName("Sales 2024")), types.TableID("sales_current"))
	gt.Equal(t, p.OverrideFor(types.SourceName("Other")), types.TableID(""))
	gt.True(t, p.IsExcluded(types.SourceName("Scratch")))
	gt.False(t, p.IsExcluded(types.SourceName("Sales 2024")))
}

func TestLoadEmptyPath(t *testing.T) {
	p := gt.R1(policy.Load("")).NoError(t)
	gt.False(t, p.IsExcluded(types.SourceName("anything")))
	gt.Equal(t, p.OverrideFor(types.SourceName("anything")), types.TableID(""))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := policy.Load(filepath.Join(t.TempDir(), "no-such.yml"))
	gt.Error(t, err)
	gt.True(t, errs.IsConfig(err))
}

func TestLoadBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yml")
	gt.NoError(t, os.WriteFile(path, []byte("exclude: {broken"), 0600))

	_, err := policy.Load(path)
	gt.Error(t, err)
	gt.True(t, errs.IsConfig(err))
}
