// Package validate guards every value collected for a transfer: amount
// bounds, account-number format, free-text content and OTP shape. It is used
// by both the dialogue controller and the transfer-wizard API, and it never
// fails hard — every outcome is a structured result the caller renders.
package validate

import (
	"regexp"
	"strings"

	"github.com/truongvq/tellerbot/internal/policy"
)

// Result is the outcome of one string-valued check. Sanitized carries the
// cleaned value; content sanitization runs on invalid input too, so Sanitized
// can be set alongside an error.
type Result struct {
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	Sanitized string `json:"sanitized,omitempty"`
}

// AmountResult is the outcome of the amount check; Amount echoes the value
// when valid.
type AmountResult struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Amount int64  `json:"amount,omitempty"`
}

// TransferResult aggregates all checks for one transfer.
type TransferResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

var (
	digitsOnly    = regexp.MustCompile(`^\d+$`)
	otpShape      = regexp.MustCompile(`^\d{6}$`)
	jsScheme      = regexp.MustCompile(`(?i)javascript:`)
	eventHandler  = regexp.MustCompile(`(?i)on\w+=`)
	angleBrackets = strings.NewReplacer("<", "", ">", "")
)

// Validator applies the transfer rule bounds from the policy store.
type Validator struct {
	rules policy.TransferRules
	store *policy.Store
}

func New(store *policy.Store) *Validator {
	return &Validator{rules: store.Transfer(), store: store}
}

// Amount rejects negatives with a positivity-specific message, then checks
// the configured bounds (both inclusive).
func (v *Validator) Amount(amount int64) AmountResult {
	if amount < 0 {
		return AmountResult{Error: v.store.NegativeAmountText()}
	}
	if amount < v.rules.MinAmount {
		return AmountResult{Error: v.store.MinAmountText()}
	}
	if amount > v.rules.MaxAmount {
		return AmountResult{Error: v.store.MaxAmountText()}
	}
	return AmountResult{Valid: true, Amount: amount}
}

// AccountNumber strips spaces and dashes, then requires 9–16 digits.
func (v *Validator) AccountNumber(accountNumber string) Result {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(accountNumber)

	if !digitsOnly.MatchString(cleaned) {
		return Result{Error: "Số tài khoản chỉ được chứa các chữ số."}
	}
	if len(cleaned) < 9 || len(cleaned) > 16 {
		return Result{Error: "Số tài khoản phải từ 9 đến 16 chữ số."}
	}
	return Result{Valid: true, Sanitized: cleaned}
}

// TransferContent bounds the note at 160 characters and strips angle
// brackets, javascript: schemes and on*= handler patterns. Stripping happens
// on every path, including the over-length rejection.
func (v *Validator) TransferContent(content string) Result {
	trimmed := strings.TrimSpace(content)

	sanitized := angleBrackets.Replace(trimmed)
	sanitized = jsScheme.ReplaceAllString(sanitized, "")
	sanitized = eventHandler.ReplaceAllString(sanitized, "")

	if len([]rune(trimmed)) > 160 {
		return Result{Error: "Nội dung chuyển tiền không được quá 160 ký tự.", Sanitized: sanitized}
	}
	return Result{Valid: true, Sanitized: sanitized}
}

// OTP strips internal whitespace and requires exactly 6 digits.
func (v *Validator) OTP(otp string) Result {
	cleaned := strings.Join(strings.Fields(otp), "")
	if !otpShape.MatchString(cleaned) {
		return Result{Error: "Mã OTP phải gồm 6 chữ số."}
	}
	return Result{Valid: true, Sanitized: cleaned}
}

// OTPRequired reports whether a transaction of this amount needs an OTP.
// Every transaction does; there is no tiering.
func (v *Validator) OTPRequired(amount int64) bool {
	return true
}

// Transfer runs all checks for one transfer. The OTP check only runs when an
// OTP value was supplied — requiring that one eventually is remains the
// caller's job.
func (v *Validator) Transfer(amount int64, accountNumber, content string, otp *string) TransferResult {
	errors := []string{}

	if r := v.Amount(amount); !r.Valid {
		errors = append(errors, r.Error)
	}
	if r := v.AccountNumber(accountNumber); !r.Valid {
		errors = append(errors, r.Error)
	}
	if r := v.TransferContent(content); !r.Valid {
		errors = append(errors, r.Error)
	}
	if otp != nil {
		if r := v.OTP(*otp); !r.Valid {
			errors = append(errors, r.Error)
		}
	}

	return TransferResult{Valid: len(errors) == 0, Errors: errors}
}
