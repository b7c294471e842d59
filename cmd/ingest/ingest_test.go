package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhamksm/excel-mapper/internal/models"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `columns:
  Dato:
    field: DATE
  Tekst:
    field: TITLE
  Ut:
    field: AMOUNT
    sign_policy: DEBIT
  Inn:
    field: AMOUNT
    sign_policy: CREDIT
references:
  "To Wise 123":
    account: wise
    amount: 42500.00
`)

	profile, err := loadProfile(path)
	require.NoError(t, err)

	require.Len(t, profile.Columns, 4)
	assert.Equal(t, models.FieldDate, profile.Columns["Dato"].Field)
	assert.Equal(t, models.SignDebit, profile.Columns["Ut"].SignPolicy)

	decls := referenceDecls(profile)
	// Lookup is keyed by normalized title, digits and case stripped.
	decl, ok := decls["TO WISE"]
	require.True(t, ok)
	assert.Equal(t, "wise", decl.AccountID)
	require.NotNil(t, decl.Amount)
	assert.True(t, decl.Amount.Equal(decimal.NewFromInt(42500)))
}

func TestLoadProfileNoColumns(t *testing.T) {
	path := writeProfile(t, "references: {}\n")

	_, err := loadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maps no columns")
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := loadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
