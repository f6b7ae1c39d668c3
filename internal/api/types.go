package api

import "time"

// Data-transfer shapes mirrored from the remote finance API. Their lifecycle
// is owned server-side; this app only renders and edits them over HTTP.

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Startup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Website     string `json:"website,omitempty"`
}

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Invoice struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Number     string    `json:"number"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	IssuedAt   time.Time `json:"issuedAt"`
	DueDate    time.Time `json:"dueDate"`
}

type Item struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	CategoryID string  `json:"categoryId,omitempty"`
}

type Payment struct {
	ID        string    `json:"id"`
	InvoiceID string    `json:"invoiceId"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paidAt"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Budget    float64   `json:"budget"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate,omitzero"`
}

type BudgetProposal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	SubmittedBy string    `json:"submittedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Date        time.Time `json:"date"`
}

// CEORequest is an approval request surfaced on the admin dashboard.
type CEORequest struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	RequestedBy string    `json:"requestedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
