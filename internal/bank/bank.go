// Package bank carries the reference data the assistant reads but never
// owns: the current user's profile, the saved beneficiary directory, recent
// transactions and the spending snapshot. In production these would come from
// the banking backend; here they are an injected in-memory repository so the
// dialogue engine stays free of ambient globals.
package bank

// User is the current account holder, used for templated responses.
type User struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	AccountNumber string `json:"accountNumber"`
	Balance       int64  `json:"balance"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
}

// Beneficiary is one saved transfer contact.
type Beneficiary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	BankShortName string `json:"bankShortName"`
	BankID        string `json:"bankId,omitempty"`
}

// Transaction is one row of account history.
type Transaction struct {
	ID          string `json:"id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Amount      int64  `json:"amount"`
	Direction   string `json:"direction"` // "in" | "out"
	Description string `json:"description"`
	Beneficiary string `json:"beneficiary,omitempty"`
}

// SpendingCategory is one bar of the monthly spending chart. Color is the UI
// token the chart renderer switches on.
type SpendingCategory struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
	Color  string `json:"color"`
}

// Spending is the monthly spending snapshot.
type Spending struct {
	Total      int64              `json:"total"`
	Limit      int64              `json:"limit"`
	Categories []SpendingCategory `json:"categories"`
}

// Repository serves read-only reference data to the dialogue engine.
type Repository struct {
	user          User
	beneficiaries []Beneficiary
	history       []Transaction
	spending      Spending
}

func NewRepository(user User, beneficiaries []Beneficiary, history []Transaction, spending Spending) *Repository {
	return &Repository{
		user:          user,
		beneficiaries: beneficiaries,
		history:       history,
		spending:      spending,
	}
}

func (r *Repository) User() User { return r.user }

func (r *Repository) Beneficiaries() []Beneficiary {
	return append([]Beneficiary(nil), r.beneficiaries...)
}

func (r *Repository) BeneficiaryByID(id string) (Beneficiary, bool) {
	for _, b := range r.beneficiaries {
		if b.ID == id {
			return b, true
		}
	}
	return Beneficiary{}, false
}

// RecentTransactions returns up to n most recent rows.
func (r *Repository) RecentTransactions(n int) []Transaction {
	if n > len(r.history) {
		n = len(r.history)
	}
	return append([]Transaction(nil), r.history[:n]...)
}

func (r *Repository) Spending() Spending { return r.spending }

// Seed returns the demo dataset used when no backend is wired.
func Seed() *Repository {
	return NewRepository(
		User{
			ID:            "user_001",
			FullName:      "NGUYEN VAN A",
			AccountNumber: "1983493579",
			Balance:       1_850_000,
			PhoneNumber:   "0913144768",
		},
		[]Beneficiary{
			{ID: "ben_001", Name: "TRAN VAN C", AccountNumber: "103000234718", BankName: "Ngân hàng TMCP Công Thương Việt Nam", BankShortName: "OCB", BankID: "ocb"},
			{ID: "ben_002", Name: "NGO VAN B", AccountNumber: "103000345898", BankName: "Ngân hàng Phương Đông", BankShortName: "OCB", BankID: "ocb"},
			{ID: "ben_003", Name: "LE HONG H", AccountNumber: "928643923235", BankName: "Ngân hàng Ngoại thương Việt Nam", BankShortName: "Vietcombank", BankID: "vcb"},
			{ID: "ben_004", Name: "DAO LE KHANH", AccountNumber: "0913144768", BankName: "Ngân hàng Quân đội", BankShortName: "MB", BankID: "mb"},
		},
		[]Transaction{
			{ID: "trans_001", Date: "2025-12-30", Amount: 200_000, Direction: "out", Description: "Chuyen tien cho DAO LE KHANH", Beneficiary: "DAO LE KHANH"},
			{ID: "trans_002", Date: "2025-12-29", Amount: 50_000, Direction: "out", Description: "NGUYEN VAN A chuyen tien", Beneficiary: "TRAN VAN C"},
			{ID: "trans_003", Date: "2025-12-29", Amount: 100_000, Direction: "out", Description: "NGUYEN VAN A chuyen tien", Beneficiary: "LE HONG H"},
			{ID: "trans_004", Date: "2025-12-28", Amount: 40_000, Direction: "out", Description: "NGUYEN VAN A chuyen tien", Beneficiary: "DAO LE KHANH"},
			{ID: "trans_005", Date: "2025-12-28", Amount: 200_000, Direction: "in", Description: "NGUYEN VAN A chuyen tien", Beneficiary: "MAC PHAM THIEN LONG"},
		},
		Spending{
			Total: 15_450_000,
			Limit: 10_000_000,
			Categories: []SpendingCategory{
				{Label: "Ăn uống", Amount: 5_450_000, Color: "bg-orange-400"},
				{Label: "Mua sắm", Amount: 4_800_000, Color: "bg-blue-400"},
				{Label: "Di chuyển", Amount: 3_200_000, Color: "bg-green-400"},
				{Label: "Khác", Amount: 2_000_000, Color: "bg-gray-300"},
			},
		},
	)
}
