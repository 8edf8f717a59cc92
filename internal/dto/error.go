package dto

// ErrorResponse is the body of every non-2xx API response. Code is a stable
// machine-readable value such as UNAUTHORIZED or UNBALANCED_ENTRY.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Debit      string `json:"debit,omitempty"`
	Credit     string `json:"credit,omitempty"`
	Difference string `json:"difference,omitempty"`
}
