package common

import (
	"math/rand"
	"time"
)

const trxCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(length int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	result := make([]byte, length)
	for i := range result {
		result[i] = trxCharacters[r.Intn(len(trxCharacters))]
	}
	return string(result)
}

func GenerateTrxNo() string {
	return randomCode(7)
}

// GenerateReferralCode produces the 8-character code users share to build
// their sponsor chain.
func GenerateReferralCode() string {
	return randomCode(8)
}
