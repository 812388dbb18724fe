package testdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	data := "custom_id,username,password,expected\n" +
		"standard,standard_user,secret_sauce,inventory_page\n" +
		"empty_fields,,,empty_fields_error\n"

	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "standard", rows[0].ID())
	assert.Equal(t, "standard_user", rows[0].Get("username"))
	assert.Equal(t, "inventory_page", rows[0].Get("expected"))
	assert.Equal(t, "", rows[1].Get("username"))
	assert.Equal(t, "", rows[1].Get("missing"))
}

func TestReadCSV_BOMAndEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("\ufeffcustom_id,product_name\nbackpack,Sauce Labs Backpack\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "backpack", rows[0].ID())

	rows, err = ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadCSV_RaggedLine(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("custom_id,product_name\nbike_light,Sauce Labs Bike Light\n"), 0644))

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sauce Labs Bike Light", rows[0].Get("product_name"))

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test data file not found")
}
