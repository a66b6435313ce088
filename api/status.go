package api

// Application-level status codes returned in every response envelope.
// HTTP status is transport detail; these codes are the service contract.
const (
	StatusSuccess        = 10000
	StatusMixedSuccess   = 10010
	StatusFailure        = 10020
	StatusInvalidRequest = 21200
	StatusNotFound       = 21300
	StatusInternalError  = 99009
)

// Status is the per-response result envelope.
type Status struct {
	Code        int    `json:"code"`
	Description string `json:"description,omitempty"`
	Details     string `json:"details,omitempty"`
	ReqID       string `json:"req_id,omitempty"`
}

// Success reports whether the status carries the success code.
func (s *Status) Success() bool {
	return s != nil && s.Code == StatusSuccess
}
