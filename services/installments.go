package services

// InstallmentSlots is the fixed number of payment slots in a plan.
const InstallmentSlots = 4

// Installment is one named slot of a payment schedule. A slot whose value is
// not positive is inactive.
type Installment struct {
	Name  string     `json:"name"`
	Value float64    `json:"value"`
	Type  AmountType `json:"type"`
}

// InstallmentPlan splits a grand total into at most four ordered payments.
type InstallmentPlan struct {
	Apply        bool                          `json:"apply"`
	Installments [InstallmentSlots]Installment `json:"installments"`
}

// InstallmentAmount is the computed amount of one slot.
type InstallmentAmount struct {
	Slot   int        `json:"slot"` // 1-based
	Name   string     `json:"name"`
	Value  float64    `json:"value"`
	Type   AmountType `json:"type"`
	Amount float64    `json:"amount"`
	Active bool       `json:"active"`
}

// InstallmentSummary reports how much of the grand total the plan allocates.
// Over-allocation is flagged, never rejected.
type InstallmentSummary struct {
	Applied              bool                                `json:"applied"`
	Slots                [InstallmentSlots]InstallmentAmount `json:"slots"`
	TotalPercent         float64                             `json:"totalPercent"`
	TotalAmount          float64                             `json:"totalInstallmentAmount"`
	RemainingAmount      float64                             `json:"remainingAmount"`
	PercentOverAllocated bool                                `json:"percentOverAllocated"`
	AmountOverAllocated  bool                                `json:"amountOverAllocated"`
}

// CalcInstallments allocates grandTotal across the plan's slots. When the plan is
// not applied the summary is empty and Applied is false.
func CalcInstallments(plan InstallmentPlan, grandTotal float64) InstallmentSummary {
	var s InstallmentSummary
	for i, inst := range plan.Installments {
		s.Slots[i] = InstallmentAmount{
			Slot:  i + 1,
			Name:  inst.Name,
			Value: inst.Value,
			Type:  inst.Type,
		}
	}
	if !plan.Apply {
		return s
	}
	s.Applied = true

	for i, inst := range plan.Installments {
		if inst.Value <= 0 {
			continue
		}
		amount := inst.Type.Of(grandTotal, inst.Value)
		if inst.Type == AmountPercent {
			s.TotalPercent += inst.Value
		}
		s.TotalAmount += amount
		s.Slots[i].Amount = amount
		s.Slots[i].Active = true
	}

	s.RemainingAmount = grandTotal - s.TotalAmount
	s.PercentOverAllocated = s.TotalPercent > 100
	s.AmountOverAllocated = s.RemainingAmount < 0
	return s
}

// Printable returns the slots shown on a printed payment schedule: those that
// carry a name or a value.
func (s InstallmentSummary) Printable() []InstallmentAmount {
	if !s.Applied {
		return nil
	}
	var out []InstallmentAmount
	for _, slot := range s.Slots {
		if slot.Name == "" && slot.Value == 0 {
			continue
		}
		out = append(out, slot)
	}
	return out
}
