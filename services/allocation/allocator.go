package allocation

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNoActiveSubscribers = fmt.Errorf("no active subscribers to allocate to")

// Share is one active subscriber's stake in a property.
type Share struct {
	SubscriptionID  uuid.UUID
	SharePercentage decimal.Decimal
}

// Allocation is the amount assigned to one subscriber.
type Allocation struct {
	SubscriptionID  uuid.UUID
	SharePercentage decimal.Decimal
	Amount          decimal.Decimal
}

// Allocate splits total across shares proportionally, in currency
// precision (2 decimal places). The sum of all returned amounts equals
// total exactly: each amount is rounded down and the residual is
// assigned to the largest share (ties broken by subscription id) so the
// result is deterministic.
func Allocate(total decimal.Decimal, shares []Share) ([]Allocation, error) {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.SharePercentage)
	}
	if len(shares) == 0 || !sum.IsPositive() {
		return nil, ErrNoActiveSubscribers
	}

	allocations := make([]Allocation, len(shares))
	allocated := decimal.Zero
	for i, s := range shares {
		amount := total.Mul(s.SharePercentage).Div(sum).RoundDown(2)
		allocations[i] = Allocation{
			SubscriptionID:  s.SubscriptionID,
			SharePercentage: s.SharePercentage,
			Amount:          amount,
		}
		allocated = allocated.Add(amount)
	}

	residual := total.Sub(allocated)
	if !residual.IsZero() {
		largest := 0
		for i := 1; i < len(allocations); i++ {
			cmp := allocations[i].SharePercentage.Cmp(allocations[largest].SharePercentage)
			if cmp > 0 || (cmp == 0 && allocations[i].SubscriptionID.String() < allocations[largest].SubscriptionID.String()) {
				largest = i
			}
		}
		allocations[largest].Amount = allocations[largest].Amount.Add(residual)
	}

	// Stable output order: largest share first, then by subscription id.
	sort.SliceStable(allocations, func(i, j int) bool {
		cmp := allocations[i].SharePercentage.Cmp(allocations[j].SharePercentage)
		if cmp != 0 {
			return cmp > 0
		}
		return allocations[i].SubscriptionID.String() < allocations[j].SubscriptionID.String()
	})

	return allocations, nil
}
