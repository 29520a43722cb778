package costs

import (
	"network-summary/internal/model"
)

// TransmissionOptions scales line and HVDC link costs.
type TransmissionOptions struct {
	LengthFactor float64
	// SimpleHVDCCosts prices all DC links as overhead lines without converters.
	SimpleHVDCCosts bool
}

// UpdateTransmissionCosts sets line capital costs from the HVAC overhead cost
// and DC link capital costs from the HVDC overhead/submarine/inverter costs.
func UpdateTransmissionCosts(n *model.Network, t *Table, opts TransmissionOptions) error {
	lf := opts.LengthFactor
	if lf == 0 {
		lf = 1
	}

	hvac, err := t.At("HVAC overhead", ParamCapitalCost)
	if err != nil {
		return err
	}
	for i := range n.Lines {
		n.Lines[i].CapitalCost = n.Lines[i].Length * lf * hvac
	}

	var dc []int
	for i, l := range n.Links {
		if l.Carrier == "DC" {
			dc = append(dc, i)
		}
	}
	if len(dc) == 0 {
		return nil
	}

	overhead, err := t.At("HVDC overhead", ParamCapitalCost)
	if err != nil {
		return err
	}
	if opts.SimpleHVDCCosts {
		for _, i := range dc {
			n.Links[i].CapitalCost = n.Links[i].Length * lf * overhead
		}
		return nil
	}

	submarine, err := t.At("HVDC submarine", ParamCapitalCost)
	if err != nil {
		return err
	}
	inverter, err := t.At("HVDC inverter pair", ParamCapitalCost)
	if err != nil {
		return err
	}
	for _, i := range dc {
		l := &n.Links[i]
		uw := l.UnderwaterFraction
		l.CapitalCost = l.Length*lf*((1-uw)*overhead+uw*submarine) + inverter
	}
	return nil
}
