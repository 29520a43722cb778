package analysis

import (
	"network-summary/internal/data"
	"network-summary/internal/model"
)

// Summary bundles every aggregate of one network.
type Summary struct {
	PNom       Series
	P          Series
	ENom       Series
	PCurtailed Series
	Costs      *Costs
}

// Summarize runs all aggregators over n.
func Summarize(n *model.Network, opts CostOptions) (*Summary, error) {
	c, err := AggregateCosts(n, opts)
	if err != nil {
		return nil, err
	}
	return &Summary{
		PNom:       AggregatePNom(n),
		P:          AggregateP(n),
		ENom:       AggregateENom(n),
		PCurtailed: AggregatePCurtailed(n),
		Costs:      c,
	}, nil
}

// Rows flattens the summary into report rows. A flattened cost report
// replaces the per-component cost rows.
func (s *Summary) Rows() []data.SummaryRow {
	var rows []data.SummaryRow
	for _, q := range []struct {
		name string
		s    Series
	}{
		{"p_nom", s.PNom},
		{"p", s.P},
		{"e_nom", s.ENom},
		{"p_curtailed", s.PCurtailed},
	} {
		rows = append(rows, seriesRows(q.name, "", "", q.s)...)
	}
	rows = append(rows, s.Costs.Rows()...)
	return rows
}

// Rows returns the cost report as summary rows.
func (c *Costs) Rows() []data.SummaryRow {
	if c == nil {
		return nil
	}
	if c.Flat != nil {
		return seriesRows("costs", "", "", *c.Flat)
	}
	var rows []data.SummaryRow
	for _, k := range c.Keys {
		rows = append(rows, seriesRows("costs", k.Component, string(k.Kind), c.Series[k])...)
	}
	return rows
}

func seriesRows(quantity, component, kind string, s Series) []data.SummaryRow {
	rows := make([]data.SummaryRow, 0, s.Len())
	for i, l := range s.Index {
		rows = append(rows, data.SummaryRow{
			Quantity:  quantity,
			Component: component,
			Kind:      kind,
			Carrier:   l,
			Value:     s.Values[i],
		})
	}
	return rows
}
