package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// チェックアウトの構造チェック用フォーム。
// カード情報は形だけ検証して破棄する（保存しない）。
type CheckoutForm struct {
	ShippingFirstName string
	ShippingLastName  string
	ShippingEmail     string
	ShippingPhone     string
	ShippingAddress1  string
	ShippingAddress2  string
	ShippingCity      string
	ShippingState     string
	ShippingZip       string
	ShippingCountry   string

	CardNumber string
	CardExpiry string
	CardCVC    string
	CardName   string
}

var (
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvcPattern    = regexp.MustCompile(`^\d{3,4}$`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
)

// フィールドごとのエラーを全部集めて返す。問題なければ空map。
func ValidateCheckout(f CheckoutForm) map[string][]string {
	errs := map[string][]string{}

	add := func(field, msg string) {
		errs[field] = append(errs[field], msg)
	}

	required := []struct {
		field, value string
		max          int
	}{
		{"shipping_first_name", f.ShippingFirstName, 100},
		{"shipping_last_name", f.ShippingLastName, 100},
		{"shipping_email", f.ShippingEmail, 255},
		{"shipping_address1", f.ShippingAddress1, 255},
		{"shipping_city", f.ShippingCity, 100},
		{"shipping_state", f.ShippingState, 100},
		{"shipping_zip", f.ShippingZip, 20},
		{"shipping_country", f.ShippingCountry, 100},
	}
	for _, r := range required {
		v := strings.TrimSpace(r.value)
		if v == "" {
			add(r.field, fmt.Sprintf("The %s field is required.", r.field))
			continue
		}
		if len(v) > r.max {
			add(r.field, fmt.Sprintf("The %s field is too long.", r.field))
		}
	}

	if f.ShippingEmail != "" && !isEmailLike(f.ShippingEmail) {
		add("shipping_email", "The shipping_email must be a valid email address.")
	}

	if strings.TrimSpace(f.CardName) == "" {
		add("card_name", "The card_name field is required.")
	}
	if strings.TrimSpace(f.CardNumber) == "" {
		add("card_number", "The card_number field is required.")
	} else if !Luhn(f.CardNumber) {
		add("card_number", "The card number is invalid.")
	}
	if !expiryPattern.MatchString(f.CardExpiry) {
		add("card_expiry", "The card_expiry must match MM/YY.")
	}
	if !cvcPattern.MatchString(f.CardCVC) {
		add("card_cvc", "The card_cvc must be 3 or 4 digits.")
	}

	return errs
}

// Luhnチェック。
// 空白とハイフンを除いた13〜19桁、右端から1つおきに2倍（9超は-9）して合計が10の倍数なら有効。
func Luhn(cardNumber string) bool {
	n := strings.NewReplacer(" ", "", "-", "").Replace(cardNumber)

	if !digitsOnly.MatchString(n) {
		return false
	}
	if len(n) < 13 || len(n) > 19 {
		return false
	}

	sum := 0
	alternate := false
	for i := len(n) - 1; i >= 0; i-- {
		digit := int(n[i] - '0')
		if alternate {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		alternate = !alternate
	}

	return sum%10 == 0
}

func isEmailLike(email string) bool {
	_, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil
}
