package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollupAdvancesWhenAllDocumentsValid(t *testing.T) {
	status, changed := RollupRegistrationStatus(RegistrationStatusVerifSD, []DocumentStatus{
		DocumentStatusValidSMP, DocumentStatusValidSMP, DocumentStatusValidSMP,
	})
	assert.True(t, changed)
	assert.Equal(t, RegistrationStatusVerifSMP, status)
}

func TestRollupIdempotentAtTopTier(t *testing.T) {
	status, changed := RollupRegistrationStatus(RegistrationStatusVerifSMP, []DocumentStatus{
		DocumentStatusValidSMP, DocumentStatusValidSMP,
	})
	assert.False(t, changed)
	assert.Equal(t, RegistrationStatusVerifSMP, status)
}

func TestRollupDemotesFromTopTier(t *testing.T) {
	status, changed := RollupRegistrationStatus(RegistrationStatusVerifSMP, []DocumentStatus{
		DocumentStatusValidSMP, DocumentStatusValidSD,
	})
	assert.True(t, changed)
	assert.Equal(t, RegistrationStatusVerifSD, status)
}

func TestRollupLeavesLowerTierAlone(t *testing.T) {
	status, changed := RollupRegistrationStatus(RegistrationStatusVerifSD, []DocumentStatus{
		DocumentStatusUnvalidated, DocumentStatusValidSD,
	})
	assert.False(t, changed)
	assert.Equal(t, RegistrationStatusVerifSD, status)
}

func TestRollupEmptyDocumentSetNeverAdvances(t *testing.T) {
	status, changed := RollupRegistrationStatus(RegistrationStatusVerifSD, nil)
	assert.False(t, changed)
	assert.Equal(t, RegistrationStatusVerifSD, status)
}
