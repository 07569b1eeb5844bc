package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateSecureOTP returns a random 6-digit one-time code, used for the
// password reset flow.
func GenerateSecureOTP() (string, error) {
	min := int64(100000)
	max := int64(999999)

	nBig, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", ErrorHandler(err, "failed to generate reset code")
	}

	otp := nBig.Int64() + min
	return fmt.Sprintf("%d", otp), nil
}
