package entity

// MerchantCredential is one merchant identity configured by an administrator.
// The gateway recomputes request signatures with the hash key matching the
// merchant id, so both fields must be present for a credential to be usable.
type MerchantCredential struct {
	MerchId string `json:"merchId" bson:"merch_id"`
	HashKey string `json:"hashKey" bson:"hash_key"`
}
