package models

// NetworkInfo describes one network folder available to the API.
type NetworkInfo struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Snapshots int    `json:"snapshots"`
	Buses     int    `json:"buses"`
}

// CarrierValue is one row of a carrier-indexed aggregate. Carriers may repeat
// when several element groups share a label.
type CarrierValue struct {
	Carrier string  `json:"carrier"`
	Value   float64 `json:"value"`
}

// SummaryResponse is the response of GET /api/v1/networks/:id/summary
type SummaryResponse struct {
	RunID      string                    `json:"run_id"`
	Network    string                    `json:"network"`
	Aggregates map[string][]CarrierValue `json:"aggregates"`
}

// CostSeries is one (component, kind) block of a cost report.
type CostSeries struct {
	Component string         `json:"component"`
	Kind      string         `json:"kind"`
	Carriers  []CarrierValue `json:"carriers"`
}

// CostsResponse is the response of GET /api/v1/networks/:id/costs.
// Exactly one of Costs and Flat is set.
type CostsResponse struct {
	RunID   string         `json:"run_id"`
	Network string         `json:"network"`
	Costs   []CostSeries   `json:"costs,omitempty"`
	Flat    []CarrierValue `json:"flat,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
