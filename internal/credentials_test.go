package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phipay/entity"
)

func TestResolveCredentialSingleEntry(t *testing.T) {
	configured := []entity.MerchantCredential{
		{MerchId: "M1", HashKey: "K1"},
	}

	for _, callerId := range []string{"", "M1", "M-unknown"} {
		credential, err := ResolveCredential(callerId, configured)
		require.NoError(t, err, "single-tenant shortcut must ignore caller id %q", callerId)
		assert.Equal(t, "M1", credential.MerchId)
		assert.Equal(t, "K1", credential.HashKey)
	}
}

func TestResolveCredentialMultipleEntries(t *testing.T) {
	configured := []entity.MerchantCredential{
		{MerchId: "M1", HashKey: "K1"},
		{MerchId: "M2", HashKey: "K2"},
	}

	t.Run("empty caller id fails", func(t *testing.T) {
		_, err := ResolveCredential("", configured)
		assert.ErrorIs(t, err, ErrCredentialNotFound)
	})

	t.Run("unmatched caller id fails", func(t *testing.T) {
		_, err := ResolveCredential("M3", configured)
		assert.ErrorIs(t, err, ErrCredentialNotFound)
	})

	t.Run("matching caller id returns the exact entry", func(t *testing.T) {
		credential, err := ResolveCredential("M2", configured)
		require.NoError(t, err)
		assert.Equal(t, "M2", credential.MerchId)
		assert.Equal(t, "K2", credential.HashKey)
	})
}

func TestResolveCredentialMisconfiguredEntry(t *testing.T) {
	_, err := ResolveCredential("", []entity.MerchantCredential{{MerchId: "M1"}})
	assert.ErrorIs(t, err, ErrCredentialNotFound, "empty hash key is a misconfiguration")

	_, err = ResolveCredential("", []entity.MerchantCredential{{HashKey: "K1"}})
	assert.ErrorIs(t, err, ErrCredentialNotFound, "empty merchant id is a misconfiguration")

	_, err = ResolveCredential("M1", nil)
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestParseMerchantInformation(t *testing.T) {
	configured, err := ParseMerchantInformation(`[{"merchId":"M1","hashKey":"K1"},{"merchId":"M2","hashKey":"K2"}]`)
	require.NoError(t, err)
	require.Len(t, configured, 2)
	assert.Equal(t, "M1", configured[0].MerchId)
	assert.Equal(t, "K2", configured[1].HashKey)

	_, err = ParseMerchantInformation("")
	assert.Error(t, err)

	_, err = ParseMerchantInformation("{not json")
	assert.Error(t, err)

	_, err = ParseMerchantInformation("[]")
	assert.Error(t, err)
}
