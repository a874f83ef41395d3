// Package policy holds the authoritative product facts the assistant is
// allowed to state: interest rates, supported products, transfer limits and
// the response templates built from them. The store is read-only; changing a
// rate means shipping a new build, which is how rate governance works.
package policy

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RateEntry is one row of the savings interest-rate table.
type RateEntry struct {
	Term  string  `json:"term"`  // "3" | "6" | "12"
	Rate  float64 `json:"rate"`  // percent per year
	Label string  `json:"label"` // human-readable term, e.g. "6 tháng"
}

// TransferRules bounds a single chat-initiated transfer.
// MaxDailyTx is declared here to match the published rule set but is
// enforced by the transfer backend, not by this engine.
type TransferRules struct {
	MinAmount  int64 `json:"minAmount"`
	MaxAmount  int64 `json:"maxAmount"`
	MaxDailyTx int   `json:"maxDailyTx"`
}

// Store is the read-only knowledge base consulted by the response generator.
type Store struct {
	rates       map[string]RateEntry
	termOrder   []string
	supported   []string
	unsupported []string
	transfer    TransferRules
	hotline     string
	disclaimer  string
	printer     *message.Printer
}

// NewStore returns the store populated with the bank's published facts.
func NewStore() *Store {
	return &Store{
		rates: map[string]RateEntry{
			"3":  {Term: "3", Rate: 4.6, Label: "3 tháng"},
			"6":  {Term: "6", Rate: 5.7, Label: "6 tháng"},
			"12": {Term: "12", Rate: 5.8, Label: "12 tháng"},
		},
		termOrder: []string{"3", "6", "12"},
		supported: []string{"savings", "deposit", "transfer", "loan", "card", "payment"},
		unsupported: []string{
			"bitcoin", "crypto", "cryptocurrency", "ethereum",
			"tiền điện tử", "tiền ảo", "nft",
		},
		transfer:   TransferRules{MinAmount: 1000, MaxAmount: 500_000_000, MaxDailyTx: 20},
		hotline:    "1800 6678",
		disclaimer: "Tuân thủ Nghị định 13/2023/NĐ-CP & Miễn trừ trách nhiệm AI",
		printer:    message.NewPrinter(language.Vietnamese),
	}
}

// Rate looks up the rate entry for a term key ("3", "6", "12").
func (s *Store) Rate(term string) (RateEntry, bool) {
	r, ok := s.rates[term]
	return r, ok
}

// Rates returns all rate entries in ascending term order.
func (s *Store) Rates() []RateEntry {
	out := make([]RateEntry, 0, len(s.termOrder))
	for _, t := range s.termOrder {
		out = append(out, s.rates[t])
	}
	return out
}

// Transfer returns the transfer rule bounds.
func (s *Store) Transfer() TransferRules { return s.transfer }

// Disclaimer returns the legal disclaimer line shown by the UI.
func (s *Store) Disclaimer() string { return s.disclaimer }

// SupportedProducts returns the product list the assistant may answer about.
func (s *Store) SupportedProducts() []string { return append([]string(nil), s.supported...) }

// UnsupportedProducts returns the denylist used by the hallucination guard.
func (s *Store) UnsupportedProducts() []string { return append([]string(nil), s.unsupported...) }

// FormatVND renders an amount with vi-VN thousands separators (1.850.000).
func (s *Store) FormatVND(n int64) string {
	return s.printer.Sprintf("%d", n)
}

// Response templates. Every user-visible sentence about money or rates is
// produced here so the generator cannot drift from the stored facts.

func (s *Store) BalanceText(balance int64) string {
	return fmt.Sprintf("Số dư hiện tại của bạn là %s VND.", s.FormatVND(balance))
}

func (s *Store) InterestRateText(entry RateEntry) string {
	return fmt.Sprintf("Lãi suất tiết kiệm online kỳ hạn %s là %v%%/năm.", entry.Label, entry.Rate)
}

func (s *Store) AllRatesText() string {
	text := "Lãi suất tiết kiệm online OCB: "
	for i, r := range s.Rates() {
		if i > 0 {
			text += ", "
		}
		text += fmt.Sprintf("%s: %v%%", r.Label, r.Rate)
	}
	return text
}

func (s *Store) UnsupportedProductText(product string) string {
	return fmt.Sprintf("Xin lỗi, OCB hiện chưa hỗ trợ %s. Vui lòng liên hệ hotline %s để biết thêm chi tiết.", product, s.hotline)
}

func (s *Store) UnknownTermText(term string) string {
	return fmt.Sprintf("Xin lỗi, OCB hiện không có thông tin lãi suất cho kỳ hạn %s tháng.", term)
}

func (s *Store) InvalidAmountText() string {
	return fmt.Sprintf("Số tiền không hợp lệ. Vui lòng nhập số tiền từ %s đến %s VND.",
		s.FormatVND(s.transfer.MinAmount), s.FormatVND(s.transfer.MaxAmount))
}

func (s *Store) NegativeAmountText() string {
	return "Số tiền không hợp lệ. Số tiền phải là số dương."
}

func (s *Store) MinAmountText() string {
	return fmt.Sprintf("Số tiền tối thiểu là %s VND.", s.FormatVND(s.transfer.MinAmount))
}

func (s *Store) MaxAmountText() string {
	return fmt.Sprintf("Số tiền tối đa là %s VND.", s.FormatVND(s.transfer.MaxAmount))
}
