package model

// Fixed carrier labels. Keep these stable; they show up in reports.
const (
	CarrierACLine        = "AC line"
	CarrierACTransformer = "AC transformer"
	CarrierHydroPHS      = "hydro+PHS"
)

// Topology carries the carriers of the buses an element is attached to.
// Single-bus elements only use Bus0.
type Topology struct {
	Bus0Carrier string
	Bus1Carrier string
}

// CarrierRules tweaks label derivation.
type CarrierRules struct {
	// CombineHydroPS merges pumped hydro and hydro storage units into one carrier.
	CombineHydroPS bool
}

// DeriveCarrier returns the carrier label for an element of the given kind.
// own is the carrier currently stored on the element.
func DeriveCarrier(kind Kind, own string, top Topology, rules CarrierRules) string {
	switch kind {
	case KindLoad:
		return top.Bus0Carrier + " load"
	case KindStore:
		return top.Bus0Carrier
	case KindLink:
		return top.Bus0Carrier + "-" + top.Bus1Carrier
	case KindLine:
		return CarrierACLine
	case KindTransformer:
		return CarrierACTransformer
	case KindStorageUnit:
		if rules.CombineHydroPS && (own == "PHS" || own == "hydro") {
			return CarrierHydroPHS
		}
		return own
	default:
		return own
	}
}

// AssignCarriers rewrites the carrier of every element from the network
// topology. Generators and buses keep their own carrier.
func (n *Network) AssignCarriers(rules CarrierRules) {
	bc := n.BusCarriers()
	for i := range n.Loads {
		l := &n.Loads[i]
		l.Carrier = DeriveCarrier(KindLoad, l.Carrier, Topology{Bus0Carrier: bc[l.Bus]}, rules)
	}
	for i := range n.Stores {
		s := &n.Stores[i]
		s.Carrier = DeriveCarrier(KindStore, s.Carrier, Topology{Bus0Carrier: bc[s.Bus]}, rules)
	}
	for i := range n.Links {
		l := &n.Links[i]
		l.Carrier = DeriveCarrier(KindLink, l.Carrier, Topology{Bus0Carrier: bc[l.Bus0], Bus1Carrier: bc[l.Bus1]}, rules)
	}
	for i := range n.Lines {
		n.Lines[i].Carrier = DeriveCarrier(KindLine, n.Lines[i].Carrier, Topology{}, rules)
	}
	for i := range n.Transformers {
		n.Transformers[i].Carrier = DeriveCarrier(KindTransformer, n.Transformers[i].Carrier, Topology{}, rules)
	}
	for i := range n.StorageUnits {
		su := &n.StorageUnits[i]
		su.Carrier = DeriveCarrier(KindStorageUnit, su.Carrier, Topology{Bus0Carrier: bc[su.Bus]}, rules)
	}
}
