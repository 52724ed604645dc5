package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
)

func TestDefaultTable_MerchantOrder(t *testing.T) {
	table := DefaultTable()

	freeMobile, free := -1, -1
	for i, rule := range table.Merchants {
		if rule.Pattern == "free mobile" {
			freeMobile = i
		}
		if rule.Pattern == "free telecom" {
			free = i
		}
	}
	require.GreaterOrEqual(t, freeMobile, 0)
	require.GreaterOrEqual(t, free, 0)
	assert.Less(t, freeMobile, free, "more specific patterns must come first")
}

func TestIsKnownSubscriptionMerchant(t *testing.T) {
	table := DefaultTable()
	assert.True(t, table.IsKnownSubscriptionMerchant("Netflix"))
	assert.False(t, table.IsKnownSubscriptionMerchant("Carrefour"))
	assert.False(t, table.IsKnownSubscriptionMerchant("netflix"), "matching is exact on the canonical name")
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewMockLogger())

	table, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), table)
}

func TestLoad_FullFile(t *testing.T) {
	content := `merchants:
  - pattern: "mygym"
    name: "My Gym"
categories:
  - name: "fitness"
    patterns: ["gym", "fitness"]
known_subscription_merchants:
  - "My Gym"
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	table, err := NewStore(path, logging.NewMockLogger()).Load()
	require.NoError(t, err)

	require.Len(t, table.Merchants, 1)
	assert.Equal(t, "My Gym", table.Merchants[0].Name)
	require.Len(t, table.Categories, 1)
	assert.Equal(t, []string{"gym", "fitness"}, table.Categories[0].Patterns)
	assert.True(t, table.IsKnownSubscriptionMerchant("My Gym"))
}

func TestLoad_PartialFileKeepsDefaultSections(t *testing.T) {
	content := `merchants:
  - pattern: "mygym"
    name: "My Gym"
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	table, err := NewStore(path, logging.NewMockLogger()).Load()
	require.NoError(t, err)

	assert.Len(t, table.Merchants, 1)
	assert.Equal(t, DefaultTable().Categories, table.Categories)
	assert.Equal(t, DefaultTable().KnownSubscriptionMerchants, table.KnownSubscriptionMerchants)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("merchants: [broken"), 0600))

	_, err := NewStore(path, logging.NewMockLogger()).Load()
	assert.Error(t, err)
}
