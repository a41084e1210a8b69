package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateDataDirectory(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantCount     int
		wantErr       bool
		errorContains string
	}{
		{
			name: "directory with workbooks",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				for _, name := range []string{"^NSEI_data.xlsx", "^BSESN.xlsx", "~$^NSEI_data.xlsx", "notes.txt"} {
					require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
				}
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.xlsx"), 0755))
				return dir
			},
			wantCount: 2,
		},
		{
			name: "empty directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "missing directory",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "file instead of directory",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(path, nil, 0644))
				return path
			},
			wantErr:       true,
			errorContains: "not a directory",
		},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := v.ValidateDataDirectory(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	assert.NoError(t, v.ValidateOutputFile(filepath.Join(dir, "exports", "returns.csv")))
	assert.DirExists(t, filepath.Join(dir, "exports"))

	err := v.ValidateOutputFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	entries, err := os.ReadDir(filepath.Join(dir, "exports"))
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file removed")
}

func TestFileValidator_ValidateWorkbook(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "^NSEI_data.xlsx")
	lock := filepath.Join(dir, "~$^NSEI_data.xlsx")
	csv := filepath.Join(dir, "^NSEI.csv")
	for _, p := range []string{good, lock, csv} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	v := NewFileValidator(nil)
	assert.NoError(t, v.ValidateWorkbook(good))
	assert.Error(t, v.ValidateWorkbook(lock))
	assert.Error(t, v.ValidateWorkbook(csv))
	assert.Error(t, v.ValidateWorkbook(filepath.Join(dir, "missing.xlsx")))
	assert.Error(t, v.ValidateWorkbook(dir))
}
