package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newFIFO(t *testing.T, qty int64, price string) *Position {
	t.Helper()
	p, err := NewPosition("widget", qty, dec(price), MethodFIFO, WithSampler(FixedSampler()))
	require.NoError(t, err)
	return p
}

func TestNewPosition_InvalidMethod(t *testing.T) {
	_, err := NewPosition("widget", 10, dec("5"), Method("lifo"))

	var merr InvalidCostingMethodError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, Method("lifo"), merr.Method)
}

func TestNewPosition_InitialState(t *testing.T) {
	p := newFIFO(t, 100, "50")

	assert.Equal(t, int64(100), p.Quantity())
	assert.True(t, p.BookValue().Equal(dec("5000")))
	assert.True(t, p.SalesPrice().Equal(dec("50")))
	assert.True(t, p.MarketPrice().Equal(dec("50")))
	assert.True(t, p.OpeningBookValue().Equal(dec("5000")))
	require.Len(t, p.Lots(), 1)
}

func TestAddStock_RejectsNonPositive(t *testing.T) {
	p := newFIFO(t, 10, "5")
	assert.ErrorIs(t, p.AddStock(0, dec("5"), decimal.Zero), ErrNonPositiveQuantity)
	assert.ErrorIs(t, p.AddStock(-3, dec("5"), decimal.Zero), ErrNonPositiveQuantity)
}

func TestRemoveStock_Insufficient(t *testing.T) {
	p := newFIFO(t, 10, "5")
	_, err := p.RemoveStock(11)

	var serr InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, int64(11), serr.Requested)
	assert.Equal(t, int64(10), serr.OnHand)

	// Failed removal must not touch state.
	assert.Equal(t, int64(10), p.Quantity())
	assert.True(t, p.BookValue().Equal(dec("50")))
}

func TestFIFO_RemovalConsumesOldestLots(t *testing.T) {
	p, err := NewPosition("widget", 0, decimal.Zero, MethodFIFO, WithSampler(FixedSampler()))
	require.NoError(t, err)
	require.NoError(t, p.AddStock(50, dec("55"), decimal.Zero))
	require.NoError(t, p.AddStock(100, dec("60"), decimal.Zero))

	cost, err := p.RemoveStock(120)
	require.NoError(t, err)

	// 50×55 + 70×60 = 2750 + 4200 = 6950.
	assert.True(t, cost.Equal(dec("6950")), "got %s", cost)
	assert.Equal(t, int64(30), p.Quantity())

	lots := p.Lots()
	require.Len(t, lots, 1, "partially consumed lot is split in place")
	assert.Equal(t, int64(30), lots[0].Quantity)
	assert.True(t, lots[0].UnitCost.Equal(dec("60")))
	assert.True(t, p.BookValue().Equal(dec("1800")))
}

func TestFIFO_LotSumMatchesQuantity(t *testing.T) {
	p := newFIFO(t, 100, "50")
	require.NoError(t, p.AddStock(50, dec("55"), decimal.Zero))
	require.NoError(t, p.AddStock(100, dec("60"), decimal.Zero))
	_, err := p.RemoveStock(120)
	require.NoError(t, err)
	require.NoError(t, p.AddStock(75, dec("65"), decimal.Zero))

	var lotSum int64
	for _, lot := range p.Lots() {
		lotSum += lot.Quantity
	}
	assert.Equal(t, p.Quantity(), lotSum)
}

func TestFIFO_IncidentalCostFoldedIntoLot(t *testing.T) {
	p, err := NewPosition("widget", 0, decimal.Zero, MethodFIFO, WithSampler(FixedSampler()))
	require.NoError(t, err)
	require.NoError(t, p.AddStock(10, dec("50"), dec("20")))

	lots := p.Lots()
	require.Len(t, lots, 1)
	assert.True(t, lots[0].UnitCost.Equal(dec("52")), "500+20 over 10 units")

	cost, err := p.RemoveStock(10)
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("520")))
	assert.True(t, p.BookValue().IsZero())
}

func TestMovingAverage_RemovalCost(t *testing.T) {
	p, err := NewPosition("widget", 100, dec("50"), MethodMovingAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)
	require.NoError(t, p.AddStock(50, dec("55"), decimal.Zero))

	// (100×50 + 50×55) / 150 = 51.666...
	assert.True(t, p.UnitCost().Equal(dec("51.66666667")), "got %s", p.UnitCost())

	cost, err := p.RemoveStock(120)
	require.NoError(t, err)
	// 7750 × 120 / 150 = 6200 exactly.
	assert.True(t, cost.Equal(dec("6200")), "got %s", cost)
	assert.Equal(t, int64(30), p.Quantity())
	assert.True(t, p.BookValue().Equal(dec("1550")))
}

func TestMovingAverage_FullRemovalConsumesBookValueExactly(t *testing.T) {
	p, err := NewPosition("widget", 3, dec("10"), MethodMovingAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)
	require.NoError(t, p.AddStock(7, dec("13"), decimal.Zero))

	cost, err := p.RemoveStock(10)
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("121")))
	assert.True(t, p.BookValue().IsZero())
	assert.Equal(t, int64(0), p.Quantity())
}

func TestPeriodicAverage_UsesRunningTotals(t *testing.T) {
	p, err := NewPosition("widget", 100, dec("50"), MethodPeriodicAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)
	require.NoError(t, p.AddStock(50, dec("55"), decimal.Zero))
	require.NoError(t, p.AddStock(100, dec("60"), decimal.Zero))

	// (5000 + 2750 + 6000) × 120 / 250 = 6600.
	cost, err := p.RemoveStock(120)
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("6600")), "got %s", cost)
	assert.Equal(t, int64(130), p.Quantity())
}

func TestPeriodicAverage_ResetAtPeriodOpen(t *testing.T) {
	p, err := NewPosition("widget", 100, dec("50"), MethodPeriodicAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)
	require.NoError(t, p.AddStock(100, dec("70"), decimal.Zero))
	_, err = p.RemoveStock(100)
	require.NoError(t, err)

	p.MarkPeriodOpen()
	// New period: the average restarts from the carried stock, so a
	// removal right after open prices at the carried unit cost.
	cost, err := p.RemoveStock(50)
	require.NoError(t, err)
	assert.True(t, cost.Equal(p.OpeningBookValue().DivRound(dec("100"), costPrecision).Mul(dec("50"))), "got %s", cost)
}

func TestSell_UpdatesPricesAndRefreshesMarket(t *testing.T) {
	sampled := dec("77")
	p, err := NewPosition("widget", 100, dec("50"), MethodMovingAverage,
		WithSampler(func(mean decimal.Decimal) decimal.Decimal { return sampled }))
	require.NoError(t, err)

	cost, err := p.Sell(20, dec("80"))
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("1000")))
	assert.True(t, p.SalesPrice().Equal(dec("80")))
	assert.True(t, p.MarketPrice().Equal(sampled))
}

func TestPerformAdjustment_ShortageOnly(t *testing.T) {
	p, err := NewPosition("widget", 100, dec("50"), MethodMovingAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)

	adj, err := p.PerformAdjustment(5)
	require.NoError(t, err)

	assert.True(t, adj.Shortage.Equal(dec("250")))
	assert.True(t, adj.ValuationLoss.IsZero())
	// Market has not fallen below cost: book value unchanged.
	assert.True(t, adj.NewBookValue.Equal(dec("5000")))
	assert.True(t, adj.OpeningBookValue.Equal(dec("5000")))
	assert.Equal(t, int64(95), p.Quantity())
}

func TestPerformAdjustment_WriteDownToMarket(t *testing.T) {
	p, err := NewPosition("widget", 100, dec("50"), MethodMovingAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)
	p.SetSalesPrice(dec("40"))
	p.RefreshMarketPrice() // fixed sampler: market = 40

	adj, err := p.PerformAdjustment(5)
	require.NoError(t, err)

	assert.True(t, adj.Shortage.Equal(dec("250")))
	assert.True(t, adj.ValuationLoss.Equal(dec("950")), "(50-40)×95, got %s", adj.ValuationLoss)
	assert.True(t, adj.NewBookValue.Equal(dec("3800")), "40×95, got %s", adj.NewBookValue)
	assert.True(t, p.BookValue().Equal(dec("3800")))
}

func TestPerformAdjustment_NegativeShrinkage(t *testing.T) {
	p := newFIFO(t, 10, "5")
	_, err := p.PerformAdjustment(-1)
	require.ErrorIs(t, err, ErrNegativeShrinkage)
}

func TestPerformAdjustment_ZeroShrinkageIsValid(t *testing.T) {
	p := newFIFO(t, 10, "5")
	adj, err := p.PerformAdjustment(0)
	require.NoError(t, err)
	assert.True(t, adj.Shortage.IsZero())
	assert.Equal(t, int64(10), p.Quantity())
}

func TestPerformAdjustment_ExceedsOnHand(t *testing.T) {
	p := newFIFO(t, 10, "5")
	_, err := p.PerformAdjustment(11)

	var serr InsufficientStockError
	require.ErrorAs(t, err, &serr)
}

func TestReconciliationIdentity(t *testing.T) {
	p, err := NewPosition("widget", 100, dec("50"), MethodMovingAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)

	opening := p.OpeningBookValue() // 5000
	require.NoError(t, p.AddStock(100, dec("60"), decimal.Zero))
	purchases := p.PeriodPurchases() // 6000

	removed, err := p.RemoveStock(120) // 11000×120/200 = 6600
	require.NoError(t, err)

	p.SetSalesPrice(dec("40"))
	p.RefreshMarketPrice() // fixed sampler: market = 40
	adj, err := p.PerformAdjustment(5)
	require.NoError(t, err)

	// Shortage 55×5 = 275, write-down (55−40)×75 = 1125, new book 3000.
	cogs := opening.Add(purchases).
		Sub(adj.NewBookValue).
		Sub(adj.Shortage).
		Sub(adj.ValuationLoss)

	// Everything that entered the position and did not survive to the new
	// book value was either sold, lost or written down: the identity
	// recovers the removal cost exactly.
	assert.True(t, cogs.Equal(removed), "identity drift: cogs=%s removed=%s", cogs, removed)
	assert.True(t, p.BookValue().Equal(adj.NewBookValue))
}

func TestMarkPeriodOpen(t *testing.T) {
	p, err := NewPosition("widget", 100, dec("50"), MethodMovingAverage, WithSampler(FixedSampler()))
	require.NoError(t, err)
	require.NoError(t, p.AddStock(20, dec("60"), decimal.Zero))

	p.MarkPeriodOpen()
	assert.True(t, p.OpeningBookValue().Equal(dec("6200")))
	assert.True(t, p.PeriodPurchases().IsZero())
}

func TestMovements_AuditTrail(t *testing.T) {
	p := newFIFO(t, 100, "50")
	require.NoError(t, p.AddStock(50, dec("55"), decimal.Zero))
	_, err := p.RemoveStock(30)
	require.NoError(t, err)

	moves := p.Movements()
	require.Len(t, moves, 2)
	assert.Equal(t, int64(50), moves[0].QuantityDelta)
	assert.Equal(t, int64(-30), moves[1].QuantityDelta)
	assert.Equal(t, int64(120), moves[1].Quantity)
	assert.True(t, moves[1].BookValue.Equal(p.BookValue()))
}
