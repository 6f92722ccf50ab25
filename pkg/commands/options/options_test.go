package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/timepouch/pkg/app"
	"tableflip.dev/timepouch/pkg/printers"
	"tableflip.dev/timepouch/pkg/store"
)

var now = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

func TestFilter(t *testing.T) {
	o := FilterOptions{Active: true, Note: "review", Before: "2024-03-04 10:00", Sort: app.SortEnd}
	f, err := o.Filter("work", now)
	require.NoError(t, err)

	assert.True(t, f.Active)
	assert.Equal(t, "review", f.Note)
	assert.Equal(t, "work", f.Sheet)
	assert.Equal(t, app.SortEnd, f.Sort)
	require.NotNil(t, f.Before)
	assert.Nil(t, f.After)
}

func TestFilterLast(t *testing.T) {
	o := FilterOptions{Last: "1d"}
	f, err := o.Filter("", now)
	require.NoError(t, err)
	require.NotNil(t, f.After)
	assert.True(t, f.After.Equal(now.Add(-24*time.Hour)))
}

func TestFilterErrors(t *testing.T) {
	tests := map[string]FilterOptions{
		"before": {Before: "yesterday-ish"},
		"after":  {After: "later"},
		"last":   {Last: "forever"},
	}
	for name, o := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := o.Filter("", now)
			assert.Error(t, err)
		})
	}
}

func TestTimeOptions(t *testing.T) {
	o := TimeOptions{End: "2024-03-04T17:30:00Z"}

	start, err := o.GetStart(now)
	require.NoError(t, err)
	assert.Nil(t, start)

	end, err := o.GetEnd(now)
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.True(t, end.Equal(time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)))
}

func TestFormatResolve(t *testing.T) {
	o := FormatOptions{Format: "CSV"}
	f, err := o.Resolve("tsv")
	require.NoError(t, err)
	assert.Equal(t, printers.CSV, f)

	o = FormatOptions{}
	f, err = o.Resolve("tsv")
	require.NoError(t, err)
	assert.Equal(t, printers.TSV, f)

	o = FormatOptions{Format: "yaml"}
	_, err = o.Resolve("")
	assert.Error(t, err)
}

func TestStoreConfigOverride(t *testing.T) {
	t.Setenv(store.ConfigPathEnv, "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	o := StoreOptions{Path: "mem://override"}
	cfg, err := o.Config()
	require.NoError(t, err)
	assert.Equal(t, "mem://override", cfg.Address())
}
