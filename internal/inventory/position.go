// Package inventory tracks quantity and cost basis of stocked items under
// FIFO, moving-average or periodic weighted-average costing.
//
// Rounding rule: every division (unit costs, removal costs) rounds
// half-up to 8 decimal places, applied once where the division happens.
// Book values are updated by subtracting the computed costs directly, so
// position value and lot/average state cannot drift apart.
package inventory

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Method selects how removal costs are computed. Fixed for the life of a
// position.
type Method string

const (
	// MethodFIFO consumes acquisition lots oldest-first.
	MethodFIFO Method = "fifo"
	// MethodMovingAverage recomputes the unit cost after every addition.
	MethodMovingAverage Method = "moving_average"
	// MethodPeriodicAverage averages over totals accumulated since the
	// last period close, recomputed lazily on removal.
	MethodPeriodicAverage Method = "periodic_average"
)

// Valid reports whether the method is recognized.
func (m Method) Valid() bool {
	switch m {
	case MethodFIFO, MethodMovingAverage, MethodPeriodicAverage:
		return true
	}
	return false
}

const costPrecision = 8

// Lot is one FIFO cost layer: a quantity acquired at a unit cost.
type Lot struct {
	Quantity int64
	UnitCost decimal.Decimal
}

// Movement is one audit entry: what changed and the resulting state.
type Movement struct {
	Timestamp     time.Time
	Description   string
	QuantityDelta int64
	Quantity      int64
	BookValue     decimal.Decimal
}

// Adjustment is the result of a period-end physical count: the cost of
// missing units, any write-down to market, and the values the caller
// needs to post cost of goods sold:
//
//	COGS = OpeningBookValue + period purchases − NewBookValue − Shortage − ValuationLoss
//
// The identity holds exactly; no rounding drift accumulates across a
// period.
type Adjustment struct {
	Shortage         decimal.Decimal
	ValuationLoss    decimal.Decimal
	NewBookValue     decimal.Decimal
	OpeningBookValue decimal.Decimal
}

// Position tracks one stock-keeping unit. Created when the item is first
// registered; never deleted, only zeroed.
type Position struct {
	name      string
	method    Method
	quantity  int64
	bookValue decimal.Decimal

	salesPrice  decimal.Decimal
	marketPrice decimal.Decimal

	lots []Lot // FIFO only, acquisition order

	// Periodic-average running totals since the last period close.
	totalQuantity int64
	totalValue    decimal.Decimal

	openingValue    decimal.Decimal
	periodPurchases decimal.Decimal

	movements []Movement
	sampler   Sampler
	clock     func() time.Time
}

// Option configures a Position.
type Option func(*Position)

// WithSampler injects the market-price sampler.
func WithSampler(s Sampler) Option {
	return func(p *Position) { p.sampler = s }
}

// WithClock injects the time source for audit entries.
func WithClock(clock func() time.Time) Option {
	return func(p *Position) { p.clock = clock }
}

// NewPosition creates a position holding quantity units acquired at
// unitPrice. The opening book value starts at the initial cost so the
// first period's reconciliation identity holds without a prior close.
func NewPosition(name string, quantity int64, unitPrice decimal.Decimal, method Method, opts ...Option) (*Position, error) {
	if !method.Valid() {
		return nil, InvalidCostingMethodError{Method: method}
	}
	if quantity < 0 {
		return nil, ErrNonPositiveQuantity
	}

	value := unitPrice.Mul(decimal.NewFromInt(quantity))
	p := &Position{
		name:          name,
		method:        method,
		quantity:      quantity,
		bookValue:     value,
		salesPrice:    unitPrice,
		marketPrice:   unitPrice,
		totalQuantity: quantity,
		totalValue:    value,
		openingValue:  value,
		sampler:       GaussianSampler(rand.New(rand.NewSource(time.Now().UnixNano()))),
		clock:         time.Now,
	}
	if method == MethodFIFO && quantity > 0 {
		p.lots = []Lot{{Quantity: quantity, UnitCost: unitPrice}}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the stocked item's name.
func (p *Position) Name() string { return p.name }

// Method returns the costing method fixed at construction.
func (p *Position) Method() Method { return p.method }

// Quantity returns units on hand.
func (p *Position) Quantity() int64 { return p.quantity }

// BookValue returns the current carrying amount.
func (p *Position) BookValue() decimal.Decimal { return p.bookValue }

// SalesPrice returns the posted per-unit sales price.
func (p *Position) SalesPrice() decimal.Decimal { return p.salesPrice }

// MarketPrice returns the last sampled per-unit market price.
func (p *Position) MarketPrice() decimal.Decimal { return p.marketPrice }

// OpeningBookValue returns the book value captured at the last period
// open.
func (p *Position) OpeningBookValue() decimal.Decimal { return p.openingValue }

// PeriodPurchases returns the value added since the last period open.
func (p *Position) PeriodPurchases() decimal.Decimal { return p.periodPurchases }

// Lots returns a copy of the FIFO cost layers in acquisition order.
func (p *Position) Lots() []Lot {
	out := make([]Lot, len(p.lots))
	copy(out, p.lots)
	return out
}

// Movements returns a copy of the audit trail.
func (p *Position) Movements() []Movement {
	out := make([]Movement, len(p.movements))
	copy(out, p.movements)
	return out
}

// UnitCost returns the current per-unit cost basis: book value over
// quantity, zero when empty.
func (p *Position) UnitCost() decimal.Decimal {
	if p.quantity == 0 {
		return decimal.Zero
	}
	return p.bookValue.DivRound(decimal.NewFromInt(p.quantity), costPrecision)
}

// AddStock receives quantity units at unitPrice plus any incidental
// acquisition cost (freight, handling). Incidental costs are folded into
// the lot's unit cost so FIFO layers account for the full value.
func (p *Position) AddStock(quantity int64, unitPrice, incidentalCost decimal.Decimal) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}

	addValue := unitPrice.Mul(decimal.NewFromInt(quantity)).Add(incidentalCost)
	p.bookValue = p.bookValue.Add(addValue)
	p.quantity += quantity
	p.periodPurchases = p.periodPurchases.Add(addValue)

	switch p.method {
	case MethodFIFO:
		unitCost := addValue.DivRound(decimal.NewFromInt(quantity), costPrecision)
		p.lots = append(p.lots, Lot{Quantity: quantity, UnitCost: unitCost})
	case MethodPeriodicAverage:
		p.totalQuantity += quantity
		p.totalValue = p.totalValue.Add(addValue)
	case MethodMovingAverage:
		// Unit cost is derived from book value on demand; nothing to keep.
	}

	p.record("stock added", quantity)
	return nil
}

// RemoveStock removes quantity units and returns the consumed cost under
// the position's costing method.
func (p *Position) RemoveStock(quantity int64) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, ErrNonPositiveQuantity
	}
	if quantity > p.quantity {
		return decimal.Zero, InsufficientStockError{Requested: quantity, OnHand: p.quantity}
	}

	var cost decimal.Decimal
	var err error
	switch p.method {
	case MethodFIFO:
		cost, err = p.removeFIFO(quantity)
	case MethodMovingAverage:
		cost = p.removeMovingAverage(quantity)
	case MethodPeriodicAverage:
		cost = p.removePeriodicAverage(quantity)
	}
	if err != nil {
		return decimal.Zero, err
	}

	p.bookValue = p.bookValue.Sub(cost)
	p.quantity -= quantity
	p.record("stock removed", -quantity)
	return cost, nil
}

// Sell removes quantity units, posts a new sales price when one is given
// (positive), and refreshes the market price estimate. Returns the
// consumed cost.
func (p *Position) Sell(quantity int64, salesPrice decimal.Decimal) (decimal.Decimal, error) {
	cost, err := p.RemoveStock(quantity)
	if err != nil {
		return decimal.Zero, err
	}
	if salesPrice.IsPositive() {
		p.SetSalesPrice(salesPrice)
	}
	p.RefreshMarketPrice()
	return cost, nil
}

// removeFIFO consumes lots from the front, splitting the last partially
// consumed lot in place.
func (p *Position) removeFIFO(quantity int64) (decimal.Decimal, error) {
	remaining := quantity
	cost := decimal.Zero

	for remaining > 0 {
		if len(p.lots) == 0 {
			return decimal.Zero, ErrHistoryExhausted
		}
		oldest := &p.lots[0]
		if oldest.Quantity <= remaining {
			cost = cost.Add(oldest.UnitCost.Mul(decimal.NewFromInt(oldest.Quantity)))
			remaining -= oldest.Quantity
			p.lots = p.lots[1:]
		} else {
			cost = cost.Add(oldest.UnitCost.Mul(decimal.NewFromInt(remaining)))
			oldest.Quantity -= remaining
			remaining = 0
		}
	}
	return cost, nil
}

// removeMovingAverage prices the removal at book value over quantity.
// Computed as value×q/qty in one division so removing the whole position
// consumes the book value exactly.
func (p *Position) removeMovingAverage(quantity int64) decimal.Decimal {
	return p.bookValue.
		Mul(decimal.NewFromInt(quantity)).
		DivRound(decimal.NewFromInt(p.quantity), costPrecision)
}

// removePeriodicAverage prices the removal at the average of the running
// totals accumulated since the last period open.
func (p *Position) removePeriodicAverage(quantity int64) decimal.Decimal {
	cost := p.totalValue.
		Mul(decimal.NewFromInt(quantity)).
		DivRound(decimal.NewFromInt(p.totalQuantity), costPrecision)
	p.totalValue = p.totalValue.Sub(cost)
	p.totalQuantity -= quantity
	return cost
}

// PerformAdjustment records a period-end physical count: shrinkage units
// are missing, and if the market price has fallen below cost the
// remaining stock is written down to market. Book value is otherwise left
// unchanged at the recomputed quantity; the shortage flows through the
// caller's cost-of-goods-sold posting instead.
func (p *Position) PerformAdjustment(shrinkage int64) (Adjustment, error) {
	if shrinkage < 0 {
		return Adjustment{}, ErrNegativeShrinkage
	}
	if shrinkage > p.quantity {
		return Adjustment{}, InsufficientStockError{Requested: shrinkage, OnHand: p.quantity}
	}

	oldUnitCost := p.UnitCost()
	remaining := p.quantity - shrinkage
	shortage := oldUnitCost.Mul(decimal.NewFromInt(shrinkage))

	p.quantity = remaining
	if p.method == MethodFIFO && shrinkage > 0 {
		p.consumeLotQuantity(shrinkage)
	}
	if p.method == MethodPeriodicAverage {
		p.totalQuantity -= shrinkage
	}

	valuationLoss := decimal.Zero
	remainingDec := decimal.NewFromInt(remaining)
	if oldUnitCost.GreaterThan(p.marketPrice) {
		valuationLoss = oldUnitCost.Sub(p.marketPrice).Mul(remainingDec)
		p.bookValue = p.marketPrice.Mul(remainingDec)
		if p.method == MethodPeriodicAverage {
			p.totalValue = p.bookValue
		}
	}

	p.record("inventory adjustment", -shrinkage)
	return Adjustment{
		Shortage:         shortage,
		ValuationLoss:    valuationLoss,
		NewBookValue:     p.bookValue,
		OpeningBookValue: p.openingValue,
	}, nil
}

// consumeLotQuantity drops shrinkage units from the front of the lot
// queue without touching book value, preserving the lot-sum == quantity
// invariant.
func (p *Position) consumeLotQuantity(shrinkage int64) {
	remaining := shrinkage
	for remaining > 0 && len(p.lots) > 0 {
		oldest := &p.lots[0]
		if oldest.Quantity <= remaining {
			remaining -= oldest.Quantity
			p.lots = p.lots[1:]
		} else {
			oldest.Quantity -= remaining
			remaining = 0
		}
	}
}

// MarkPeriodOpen captures the current book value as the opening value for
// the next reconciliation cycle and resets the period accumulators.
// Called once per period close.
func (p *Position) MarkPeriodOpen() {
	p.openingValue = p.bookValue
	p.periodPurchases = decimal.Zero
	p.totalQuantity = p.quantity
	p.totalValue = p.bookValue
}

// SetSalesPrice posts a new per-unit sales price.
func (p *Position) SetSalesPrice(price decimal.Decimal) {
	p.salesPrice = price
	p.record("sales price updated", 0)
}

// RefreshMarketPrice re-estimates fair value around the posted sales
// price. Non-deterministic unless a fixed sampler is injected.
func (p *Position) RefreshMarketPrice() {
	p.marketPrice = p.sampler(p.salesPrice)
	p.record("market price refreshed", 0)
}

func (p *Position) record(description string, delta int64) {
	p.movements = append(p.movements, Movement{
		Timestamp:     p.clock(),
		Description:   description,
		QuantityDelta: delta,
		Quantity:      p.quantity,
		BookValue:     p.bookValue,
	})
}
