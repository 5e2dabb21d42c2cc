package models

// Party identifies a company, owner or architect on the application.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	// License is the contractor license number (company only).
	License string `json:"license,omitempty"`
	// ProjectNumber is the architect's own project number (architect only).
	ProjectNumber string `json:"project_number,omitempty"`
}

// Project identifies the job being billed.
type Project struct {
	Name    string `json:"name"`
	Number  string `json:"number,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

// Contract holds the contract terms. Amounts and dates are display strings
// already formatted by the caller.
type Contract struct {
	Date                string `json:"date,omitempty"`
	For                 string `json:"for,omitempty"`
	OriginalContractSum string `json:"original_contract_sum,omitempty"`
	// Amount is the contract amount shown on the form. Falls back to
	// ContractSumToDate when empty.
	Amount            string `json:"amount,omitempty"`
	NetChangeOrders   string `json:"net_change_orders,omitempty"`
	ContractSumToDate string `json:"contract_sum_to_date,omitempty"`
	RetainagePercent  string `json:"retainage_percent,omitempty"`
}

// Application holds the per-period application metadata and totals.
// Amounts and dates are display strings already formatted by the caller.
type Application struct {
	Number                   string `json:"number"`
	Date                     string `json:"date,omitempty"`
	PeriodFrom               string `json:"period_from,omitempty"`
	PeriodTo                 string `json:"period_to,omitempty"`
	TotalCompleted           string `json:"total_completed,omitempty"`
	RetainageAmount          string `json:"retainage_amount,omitempty"`
	TotalEarnedLessRetainage string `json:"total_earned_less_retainage,omitempty"`
	PreviousCertificates     string `json:"previous_certificates,omitempty"`
	CurrentPaymentDue        string `json:"current_payment_due,omitempty"`
	BalanceToFinish          string `json:"balance_to_finish,omitempty"`
}

// InvoiceApplicationData is the value object assembled by the caller for one
// generation request. It is never mutated by the generator.
type InvoiceApplicationData struct {
	Company     Party       `json:"company"`
	Owner       Party       `json:"owner"`
	Architect   Party       `json:"architect"`
	Project     Project     `json:"project"`
	Contract    Contract    `json:"contract"`
	Application Application `json:"application"`
	// LineItems is the schedule of values in display order.
	LineItems []LineItem `json:"line_items"`
	// Custom holds company-specific tokens outside the fixed vocabulary.
	Custom map[string]string `json:"custom,omitempty"`
}
