package entity

import "net/url"

// Transaction type constants sent to the gateway.
const (
	TransactionTypeSale   = "SALE"
	TransactionTypeStatus = "STATUS"
	TransactionTypeRefund = "REFUND"
)

// SaleRequest initiates a payment at checkout. It is sent JSON-encoded.
// Field names are the gateway's wire names; note the lowercase "merchantId",
// which differs from the status/refund calls.
type SaleRequest struct {
	MerchantId       string `json:"merchantId"`
	MerchantTxnNo    string `json:"merchantTxnNo"`
	Amount           string `json:"amount"`
	CurrencyCode     string `json:"currencyCode"`
	PayType          string `json:"payType"`
	CustomerEmailID  string `json:"customerEmailID"`
	TransactionType  string `json:"transactionType"`
	TxnDate          string `json:"txnDate"`
	CustomerID       string `json:"customerID"`
	ReturnURL        string `json:"returnURL"`
	CustomerMobileNo string `json:"customerMobileNo"`
	AddlParam1       string `json:"addlParam1"`
	SecureHash       string `json:"secureHash"`
}

// SignableFields returns the fields covered by the secure hash,
// keyed by wire name. The hash itself is never part of its own input.
func (r *SaleRequest) SignableFields() map[string]string {
	return map[string]string{
		"merchantId":       r.MerchantId,
		"merchantTxnNo":    r.MerchantTxnNo,
		"amount":           r.Amount,
		"currencyCode":     r.CurrencyCode,
		"payType":          r.PayType,
		"customerEmailID":  r.CustomerEmailID,
		"transactionType":  r.TransactionType,
		"txnDate":          r.TxnDate,
		"customerID":       r.CustomerID,
		"returnURL":        r.ReturnURL,
		"customerMobileNo": r.CustomerMobileNo,
		"addlParam1":       r.AddlParam1,
	}
}

// StatusRequest queries the current state of a previous sale.
// It is sent form-urlencoded; merchantTxnNo and originalTxnNo both carry
// the stored sale transaction number.
type StatusRequest struct {
	MerchantID      string
	MerchantTxnNo   string
	OriginalTxnNo   string
	PaymentMode     string
	Amount          string
	TransactionType string
	AddlParam1      string
	AddlParam2      string
	SecureHash      string
}

func (r *StatusRequest) SignableFields() map[string]string {
	return map[string]string{
		"merchantID":      r.MerchantID,
		"merchantTxnNo":   r.MerchantTxnNo,
		"originalTxnNo":   r.OriginalTxnNo,
		"paymentMode":     r.PaymentMode,
		"amount":          r.Amount,
		"transactionType": r.TransactionType,
		"addlParam1":      r.AddlParam1,
		"addlParam2":      r.AddlParam2,
	}
}

// FormValues encodes the request for transmission. Empty fields are
// transmitted; they are only excluded from the signature input.
func (r *StatusRequest) FormValues() url.Values {
	values := url.Values{}
	for name, value := range r.SignableFields() {
		values.Set(name, value)
	}
	values.Set("secureHash", r.SecureHash)
	return values
}

// RefundRequest reverses a captured sale. Same wire shape as StatusRequest,
// but with a freshly generated merchantTxnNo and the original sale number
// in originalTxnNo.
type RefundRequest struct {
	MerchantID      string
	MerchantTxnNo   string
	OriginalTxnNo   string
	PaymentMode     string
	Amount          string
	TransactionType string
	AddlParam1      string
	AddlParam2      string
	SecureHash      string
}

func (r *RefundRequest) SignableFields() map[string]string {
	return map[string]string{
		"merchantID":      r.MerchantID,
		"merchantTxnNo":   r.MerchantTxnNo,
		"originalTxnNo":   r.OriginalTxnNo,
		"paymentMode":     r.PaymentMode,
		"amount":          r.Amount,
		"transactionType": r.TransactionType,
		"addlParam1":      r.AddlParam1,
		"addlParam2":      r.AddlParam2,
	}
}

func (r *RefundRequest) FormValues() url.Values {
	values := url.Values{}
	for name, value := range r.SignableFields() {
		values.Set(name, value)
	}
	values.Set("secureHash", r.SecureHash)
	return values
}
