package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// OTPLength is the number of digits in a redemption code
const OTPLength = 6

// CodeGenerator fabricates redemption codes
type CodeGenerator func() (string, error)

// SecureCodeGenerator returns 6-digit codes from crypto/rand
func SecureCodeGenerator() (string, error) {
	return generateSecureOTP(OTPLength)
}

// generateSecureOTP generates a cryptographically secure random OTP
func generateSecureOTP(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func isOTPCode(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
