// Package fixedasset models depreciable fixed assets: book value, useful
// life, a depreciation schedule and disposal with realized gain or loss.
package fixedasset

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bokisim/bokisim/internal/inventory"
)

// Kind tags the flavor of tangible asset. One flat variant instead of a
// type hierarchy; Building is the only kind carrying extra data.
type Kind string

const (
	KindTangible Kind = "tangible"
	KindBuilding Kind = "building"
	KindMachine  Kind = "machine"
)

// DepreciationMethod selects the schedule shape.
type DepreciationMethod string

const (
	// StraightLine spreads cost minus salvage evenly over the useful life.
	StraightLine DepreciationMethod = "straight_line"
	// DecliningBalance applies double the straight-line rate to the
	// current book value, producing geometrically decreasing charges.
	DecliningBalance DepreciationMethod = "declining_balance"
)

// Valid reports whether the method is recognized.
func (m DepreciationMethod) Valid() bool {
	return m == StraightLine || m == DecliningBalance
}

// ErrAlreadyDisposed is returned when operating on a disposed asset.
var ErrAlreadyDisposed = errors.New("asset already disposed")

// OwnershipAlreadyAssignedError is returned when assigning an owner to an
// asset that already has one.
type OwnershipAlreadyAssignedError struct {
	Asset string
	Owner string
}

func (e OwnershipAlreadyAssignedError) Error() string {
	return fmt.Sprintf("asset %q is already owned by %q", e.Asset, e.Owner)
}

const daysPerYear = 365

// Asset is a depreciable fixed asset. Invariants: book value never drops
// below salvage value, accumulated depreciation never exceeds cost minus
// salvage value, and disposal is terminal.
type Asset struct {
	name        string
	kind        Kind
	address     string // buildings only
	owner       string
	cost        decimal.Decimal
	salvage     decimal.Decimal
	usefulLife  int // years
	method      DepreciationMethod
	bookValue   decimal.Decimal
	accumulated decimal.Decimal
	marketValue decimal.Decimal
	disposed    bool
	sampler     inventory.Sampler
}

// Option configures an Asset.
type Option func(*Asset)

// WithKind sets the asset kind (default tangible).
func WithKind(k Kind) Option {
	return func(a *Asset) { a.kind = k }
}

// WithAddress sets a building's address.
func WithAddress(addr string) Option {
	return func(a *Asset) {
		a.kind = KindBuilding
		a.address = addr
	}
}

// WithSampler injects the market-value sampler.
func WithSampler(s inventory.Sampler) Option {
	return func(a *Asset) { a.sampler = s }
}

// New creates an asset at acquisition cost with a salvage value given as
// a ratio of cost (0 ≤ ratio < 1).
func New(name string, cost decimal.Decimal, usefulLifeYears int, salvageRatio decimal.Decimal, method DepreciationMethod, opts ...Option) (*Asset, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("invalid depreciation method %q", method)
	}
	if usefulLifeYears <= 0 {
		return nil, fmt.Errorf("useful life must be positive, got %d", usefulLifeYears)
	}
	if cost.IsNegative() {
		return nil, fmt.Errorf("acquisition cost must not be negative, got %s", cost)
	}
	if salvageRatio.IsNegative() || salvageRatio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("salvage ratio must be in [0, 1), got %s", salvageRatio)
	}

	a := &Asset{
		name:        name,
		kind:        KindTangible,
		cost:        cost,
		salvage:     cost.Mul(salvageRatio),
		usefulLife:  usefulLifeYears,
		method:      method,
		bookValue:   cost,
		accumulated: decimal.Zero,
		marketValue: cost,
		sampler:     inventory.GaussianSampler(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the asset name.
func (a *Asset) Name() string { return a.name }

// Kind returns the asset kind tag.
func (a *Asset) Kind() Kind { return a.kind }

// Address returns a building's address, empty otherwise.
func (a *Asset) Address() string { return a.address }

// Owner returns the current owner, empty while unassigned.
func (a *Asset) Owner() string { return a.owner }

// Cost returns the acquisition cost.
func (a *Asset) Cost() decimal.Decimal { return a.cost }

// SalvageValue returns the absolute salvage value.
func (a *Asset) SalvageValue() decimal.Decimal { return a.salvage }

// BookValue returns the current carrying amount.
func (a *Asset) BookValue() decimal.Decimal { return a.bookValue }

// AccumulatedDepreciation returns total depreciation charged so far.
func (a *Asset) AccumulatedDepreciation() decimal.Decimal { return a.accumulated }

// MarketValue returns the last sampled market value.
func (a *Asset) MarketValue() decimal.Decimal { return a.marketValue }

// Disposed reports whether the asset reached its terminal state.
func (a *Asset) Disposed() bool { return a.disposed }

// SetOwner assigns ownership. Allowed exactly once.
func (a *Asset) SetOwner(owner string) error {
	if a.disposed {
		return ErrAlreadyDisposed
	}
	if a.owner != "" {
		return OwnershipAlreadyAssignedError{Asset: a.name, Owner: a.owner}
	}
	a.owner = owner
	return nil
}

// RefreshMarketValue re-estimates fair value around the current book
// value through the injected sampler.
func (a *Asset) RefreshMarketValue() {
	a.marketValue = a.sampler(a.bookValue)
}

// ApplyDepreciation charges depreciation for elapsedDays and returns the
// amount for the caller to post (DepreciationExpense +amount,
// AccumulatedDepreciation −amount). Amounts truncate to whole currency
// units. The charge is capped so book value never falls below salvage
// value.
func (a *Asset) ApplyDepreciation(elapsedDays int) (decimal.Decimal, error) {
	if a.disposed {
		return decimal.Zero, ErrAlreadyDisposed
	}
	if elapsedDays <= 0 {
		return decimal.Zero, fmt.Errorf("elapsed days must be positive, got %d", elapsedDays)
	}

	lifeDays := decimal.NewFromInt(int64(a.usefulLife) * daysPerYear)
	var perDay decimal.Decimal
	switch a.method {
	case StraightLine:
		perDay = a.cost.Sub(a.salvage).DivRound(lifeDays, 8)
	case DecliningBalance:
		perDay = a.bookValue.Mul(decimal.NewFromInt(2)).DivRound(lifeDays, 8)
	}

	charge := perDay.Mul(decimal.NewFromInt(int64(elapsedDays))).Truncate(0)

	// Cap at the remaining depreciable base.
	remaining := a.bookValue.Sub(a.salvage)
	if charge.GreaterThan(remaining) {
		charge = remaining
	}
	if charge.IsNegative() {
		charge = decimal.Zero
	}

	a.accumulated = a.accumulated.Add(charge)
	a.bookValue = a.bookValue.Sub(charge)
	return charge, nil
}

// Disposal is the balanced posting produced by disposing of an asset.
// Proceeds, the asset's cost reversal, the accumulated-depreciation
// clearance and the realized gain or loss net to zero.
type Disposal struct {
	Proceeds                decimal.Decimal
	Cost                    decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	Gain                    decimal.Decimal // zero when a loss was realized
	Loss                    decimal.Decimal // zero when a gain was realized
}

// Dispose sells or retires the asset for saleProceeds. Terminal: a second
// call fails with ErrAlreadyDisposed, and no further depreciation or
// ownership change is permitted.
func (a *Asset) Dispose(saleProceeds decimal.Decimal) (Disposal, error) {
	if a.disposed {
		return Disposal{}, ErrAlreadyDisposed
	}

	netBookValue := a.cost.Sub(a.accumulated)
	d := Disposal{
		Proceeds:                saleProceeds,
		Cost:                    a.cost,
		AccumulatedDepreciation: a.accumulated,
	}
	if saleProceeds.GreaterThanOrEqual(netBookValue) {
		d.Gain = saleProceeds.Sub(netBookValue)
	} else {
		d.Loss = netBookValue.Sub(saleProceeds)
	}

	a.disposed = true
	a.bookValue = decimal.Zero
	return d, nil
}
