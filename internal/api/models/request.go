package models

// SummaryQuery selects one aggregate of a network.
type SummaryQuery struct {
	Kind string `form:"kind"` // p_nom, p, e_nom, curtailment; empty = all
}

// CostsQuery controls the cost report of a network.
type CostsQuery struct {
	Flatten      bool `form:"flatten"`
	ExistingOnly bool `form:"existing_only"`
}
