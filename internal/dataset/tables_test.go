package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_Get(t *testing.T) {
	h := header{"order_id": 0, "status": 1, "ghost": 9}
	rec := []string{" o1 ", "delivered"}

	assert.Equal(t, "o1", h.get(rec, "order_id"))
	assert.Equal(t, "delivered", h.get(rec, "status"))
	// Unknown column and out-of-range index both yield empty.
	assert.Equal(t, "", h.get(rec, "missing"))
	assert.Equal(t, "", h.get(rec, "ghost"))
}

func TestHeader_Time(t *testing.T) {
	h := header{"ts": 0}

	got, err := h.time([]string{"2018-01-05 10:30:00"}, "ts")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 5, 10, 30, 0, 0, time.UTC), got)

	// Date-only cells appear in the estimated delivery column.
	got, err = h.time([]string{"2018-01-05"}, "ts")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 5, 0, 0, 0, 0, time.UTC), got)

	// Empty cells are not an error; undelivered orders have no date.
	got, err = h.time([]string{""}, "ts")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = h.time([]string{"not-a-date"}, "ts")
	require.Error(t, err)
}

func TestReadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	content := "A,B\n1,x\n2,y\nbad\n3,z\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var got []string
	rows, skipped, err := readTable(path, func(h header, rec []string) error {
		// Header names are lower-cased.
		got = append(got, h.get(rec, "a")+h.get(rec, "b"))
		return nil
	})
	require.NoError(t, err)

	// FieldsPerRecord is relaxed, so the short row still reaches the
	// callback and only fails if the callback rejects it.
	assert.Equal(t, 4, rows)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, []string{"1x", "2y", "bad", "3z"}, got)
}

func TestReadTable_SkipsRejectedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	content := "val\n1\nbad\n3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, skipped, err := readTable(path, func(h header, rec []string) error {
		_, err := h.int(rec, "val")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 1, skipped)
}

func TestReadTable_MissingFile(t *testing.T) {
	_, _, err := readTable(filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)
}
