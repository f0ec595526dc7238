package billing

import (
	"errors"
	"strconv"
	"strings"
)

const countryCode = "55"

var (
	ErrPhoneLength = errors.New("o número deve ter 11 dígitos (DDD + número)")
	ErrPhoneDDD    = errors.New("DDD inválido")
	ErrPhoneMobile = errors.New("o número deve ser um celular iniciado por 9")
)

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone strips formatting and validates a Brazilian mobile number.
// It returns the 11 bare digits (DDD + 9 + 8 digits).
func NormalizePhone(phone string) (string, error) {
	d := digitsOnly(phone)
	if len(d) != 11 {
		return "", ErrPhoneLength
	}

	ddd, _ := strconv.Atoi(d[:2])
	if ddd < 11 || ddd > 99 {
		return "", ErrPhoneDDD
	}
	if d[2] != '9' {
		return "", ErrPhoneMobile
	}
	return d, nil
}

func ValidatePhone(phone string) error {
	_, err := NormalizePhone(phone)
	return err
}

// GatewayPhone returns the number in the international form the WhatsApp gateway expects.
func GatewayPhone(phone string) (string, error) {
	d, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	return countryCode + d, nil
}
