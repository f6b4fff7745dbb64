package internal

import (
	"encoding/json"
	"errors"
	"fmt"

	"phipay/entity"
)

// ErrCredentialNotFound is returned when no usable merchant credential can
// be resolved for a checkout attempt. It covers a missing caller merchant
// id with multiple merchants configured, an unmatched id, and a resolved
// entry with an empty merchId or hashKey.
var ErrCredentialNotFound = errors.New("merchant credential not found")

// ParseMerchantInformation decodes the administrator-configured JSON list
// of merchant credentials.
func ParseMerchantInformation(information string) ([]entity.MerchantCredential, error) {
	if information == "" {
		return nil, fmt.Errorf("merchant information is empty")
	}
	var configured []entity.MerchantCredential
	if err := json.Unmarshal([]byte(information), &configured); err != nil {
		return nil, fmt.Errorf("parse merchant information: %w", err)
	}
	if len(configured) == 0 {
		return nil, fmt.Errorf("merchant information has no entries")
	}
	return configured, nil
}

// ResolveCredential selects the merchant credential for a checkout attempt.
//
// With a single configured entry that entry is used regardless of the
// caller-supplied merchant id. With multiple entries the caller id is
// required and must match; the first match wins. Either way, a resolved
// entry with an empty merchId or hashKey is a misconfiguration.
func ResolveCredential(checkoutMerchantId string, configured []entity.MerchantCredential) (*entity.MerchantCredential, error) {
	if len(configured) == 0 {
		return nil, ErrCredentialNotFound
	}

	var resolved *entity.MerchantCredential
	if len(configured) == 1 {
		resolved = &configured[0]
	} else {
		if checkoutMerchantId == "" {
			return nil, ErrCredentialNotFound
		}
		for i := range configured {
			if configured[i].MerchId == checkoutMerchantId {
				resolved = &configured[i]
				break
			}
		}
		if resolved == nil {
			return nil, ErrCredentialNotFound
		}
	}

	if resolved.MerchId == "" || resolved.HashKey == "" {
		return nil, ErrCredentialNotFound
	}
	return resolved, nil
}
