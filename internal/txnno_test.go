package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTxnNumbersAreUniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		no := NewSaleTxnNo()
		assert.True(t, strings.HasPrefix(no, "payphi-"))
		assert.False(t, seen[no], "sale txn numbers must be unique per attempt")
		seen[no] = true
	}

	refund := NewRefundTxnNo()
	assert.True(t, strings.HasPrefix(refund, "payphi-refund-"))
	assert.False(t, seen[refund])
}

func TestTxnDateFormat(t *testing.T) {
	fixed := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "20240102030405", TxnDate(fixed))
}
