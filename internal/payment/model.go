package payment

type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// GatewayOrder mirrors the order object returned by the Razorpay orders API.
type GatewayOrder struct {
	ID         string         `json:"id"`
	Entity     string         `json:"entity"`
	Amount     int64          `json:"amount"`
	AmountPaid int64          `json:"amount_paid"`
	AmountDue  int64          `json:"amount_due"`
	Currency   string         `json:"currency"`
	Receipt    string         `json:"receipt"`
	Status     string         `json:"status"`
	Attempts   int            `json:"attempts"`
	Notes      map[string]any `json:"notes,omitempty"`
	CreatedAt  int64          `json:"created_at"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
