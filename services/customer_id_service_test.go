package services

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/opsportal/models"
)

func TestValidPrefix(t *testing.T) {
	for _, p := range []string{"CU", "CUS", "VIP", "ABCDE"} {
		assert.True(t, ValidPrefix(p), p)
	}
	for _, p := range []string{"", "A", "ab", "Cus", "ABCDEF", "C1S", "CU S"} {
		assert.False(t, ValidPrefix(p), p)
	}
}

func TestFormatSequenceID(t *testing.T) {
	assert.Equal(t, "CUS0001", FormatSequenceID("CUS", 1))
	assert.Equal(t, "VIP0042", FormatSequenceID("VIP", 42))
	assert.Equal(t, "CUS12345", FormatSequenceID("CUS", 12345))
}

func TestCustomPrefixSequence(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerIDService(db, "CUS")

	cfg, err := svc.AddCustomPrefix("VIP")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.NextSequence)
	assert.True(t, cfg.Active)

	first, err := svc.GenerateCustomerID("VIP")
	require.NoError(t, err)
	second, err := svc.GenerateCustomerID("VIP")
	require.NoError(t, err)
	assert.Equal(t, "VIP0001", first)
	assert.Equal(t, "VIP0002", second)

	var stored models.CustomerIDConfig
	require.NoError(t, db.Where("prefix = ?", "VIP").First(&stored).Error)
	assert.Equal(t, 3, stored.NextSequence)
}

func TestGenerateDefaultPrefix(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerIDService(db, "CUS")

	id, err := svc.GenerateCustomerID("")
	require.NoError(t, err)
	assert.Equal(t, "CUS0001", id)

	id, err = svc.GenerateCustomerID("  cus ")
	require.NoError(t, err)
	assert.Equal(t, "CUS0002", id)

	prefixes, err := svc.ListActivePrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 1)
	assert.Equal(t, "CUS", prefixes[0].Prefix)
}

func TestInvalidDefaultPrefixFallsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerIDService(db, "x1")

	id, err := svc.GenerateCustomerID("")
	require.NoError(t, err)
	assert.Equal(t, "CUS0001", id)
}

func TestGenerateRejectsMalformedPrefix(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerIDService(db, "CUS")

	_, err := svc.GenerateCustomerID("TOOLONG")
	assert.True(t, IsKind(err, KindInvalidArgument))

	var count int64
	db.Model(&models.CustomerIDConfig{}).Count(&count)
	assert.Zero(t, count)
}

func TestAddCustomPrefixErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerIDService(db, "CUS")

	_, err := svc.AddCustomPrefix("ab")
	assert.True(t, IsKind(err, KindInvalidArgument))

	_, err = svc.GenerateCustomerID("")
	require.NoError(t, err)

	_, err = svc.AddCustomPrefix("CUS")
	assert.True(t, IsKind(err, KindConflict))

	// the existing sequence is untouched
	id, err := svc.GenerateCustomerID("CUS")
	require.NoError(t, err)
	assert.Equal(t, "CUS0002", id)
}

func TestListActivePrefixesOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerIDService(db, "CUS")

	for _, p := range []string{"VIP", "ENT", "GOV"} {
		_, err := svc.AddCustomPrefix(p)
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeactivatePrefix("ENT"))

	prefixes, err := svc.ListActivePrefixes()
	require.NoError(t, err)
	got := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		got = append(got, p.Prefix)
	}
	assert.Equal(t, []string{"VIP", "GOV"}, got)
}

func TestDeactivatedPrefixStopsIssuing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerIDService(db, "CUS")

	_, err := svc.GenerateCustomerID("VIP")
	require.NoError(t, err)
	require.NoError(t, svc.DeactivatePrefix("VIP"))

	_, err = svc.GenerateCustomerID("VIP")
	assert.True(t, IsKind(err, KindInvalidArgument))

	assert.True(t, IsKind(svc.DeactivatePrefix("NOPE"), KindNotFound))
}

func TestConcurrentGenerationAcrossConnections(t *testing.T) {
	db := setupFileDB(t, 4)
	svc := NewCustomerIDService(db, "CUS")

	const n = 20
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []string
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.GenerateCustomerID("CUS")
			if assert.NoError(t, err) {
				mu.Lock()
				ids = append(ids, id)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Strings(ids)
	require.Len(t, ids, n)
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("CUS%04d", i+1), id)
	}

	var cfg models.CustomerIDConfig
	require.NoError(t, db.Where("prefix = ?", "CUS").First(&cfg).Error)
	assert.Equal(t, n+1, cfg.NextSequence)
}
