package core

// Household holds the display names of the two people sharing the ledger.
type Household struct {
	PersonA string
	PersonB string
}

func DefaultHousehold() Household {
	return Household{PersonA: "José", PersonB: "Stephanie"}
}

// Name returns the display name for an owner.
func (h Household) Name(o Owner) string {
	switch o {
	case PersonA:
		return h.PersonA
	case PersonB:
		return h.PersonB
	case Both:
		return "Ambos"
	}
	return string(o)
}
