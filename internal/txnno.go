package internal

import (
	"fmt"
	"sync"
	"time"
)

const (
	saleTxnPrefix   = "payphi-"
	refundTxnPrefix = "payphi-refund-"
)

var (
	txnNoMutex sync.Mutex
	txnNoLast  int64
)

// nextTxnStamp returns a strictly increasing unix timestamp so that two
// attempts within the same second still get distinct transaction numbers.
func nextTxnStamp() int64 {
	txnNoMutex.Lock()
	defer txnNoMutex.Unlock()

	stamp := time.Now().Unix()
	if stamp <= txnNoLast {
		stamp = txnNoLast + 1
	}
	txnNoLast = stamp
	return stamp
}

// NewSaleTxnNo generates a merchant transaction number for a sale attempt.
func NewSaleTxnNo() string {
	return fmt.Sprintf("%s%d", saleTxnPrefix, nextTxnStamp())
}

// NewRefundTxnNo generates a merchant transaction number for a refund.
// The prefix is distinct from sale numbers so the two never collide.
func NewRefundTxnNo() string {
	return fmt.Sprintf("%s%d", refundTxnPrefix, nextTxnStamp())
}

// TxnDate formats a timestamp the way the gateway expects (YYYYMMDDHHMMSS, UTC).
func TxnDate(t time.Time) string {
	return t.UTC().Format("20060102150405")
}
