package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bokisim/bokisim/internal/accounts"
	"github.com/bokisim/bokisim/internal/fixedasset"
	"github.com/bokisim/bokisim/internal/inventory"
	"github.com/bokisim/bokisim/internal/model"
)

// PurchaseManager handles stocking merchandise: registering products and
// buying more of them. Every operation pairs the inventory mutation with
// its cash-side ledger posting.
type PurchaseManager struct {
	player *Player
}

// AcquireProduct registers a new product for the player, paid in cash at
// unitPrice per unit. The initial stock is capitalized directly as
// merchandise inventory; later purchases flow through the purchases
// account and are settled into cost of goods sold at period close.
func (m *PurchaseManager) AcquireProduct(name string, quantity int64, unitPrice decimal.Decimal, method inventory.Method) (uuid.UUID, error) {
	p := m.player
	pos, err := inventory.NewPosition(name, quantity, unitPrice, method,
		inventory.WithSampler(p.master.Sampler()),
		inventory.WithClock(p.master.Now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating product %s: %w", name, err)
	}

	value := unitPrice.Mul(decimal.NewFromInt(quantity))
	var txnID string
	if value.IsPositive() {
		txn, err := p.ledger.Execute([]model.Line{
			{Account: accounts.MerchandiseInventory, Amount: value},
			{Account: accounts.Cash, Amount: value.Neg()},
		}, fmt.Sprintf("initial stock: %s", name))
		if err != nil {
			return uuid.Nil, fmt.Errorf("posting initial stock: %w", err)
		}
		txnID = txn.ID
	}

	id := p.master.RegisterPosition(pos)
	p.productIDs = append(p.productIDs, id)
	p.recordAudit("acquire_product", name, quantity, pos.BookValue(), txnID)
	return id, nil
}

// PurchaseProduct buys quantity more units of an existing product at
// unitPrice, plus any incidental acquisition cost, paid in cash.
func (m *PurchaseManager) PurchaseProduct(id uuid.UUID, quantity int64, unitPrice, incidentalCost decimal.Decimal) error {
	pos, err := m.player.position(id)
	if err != nil {
		return err
	}
	return m.buyIntoPosition(pos, quantity, unitPrice, incidentalCost)
}

func (m *PurchaseManager) buyIntoPosition(pos *inventory.Position, quantity int64, unitPrice, incidentalCost decimal.Decimal) error {
	if err := pos.AddStock(quantity, unitPrice, incidentalCost); err != nil {
		return fmt.Errorf("stocking %s: %w", pos.Name(), err)
	}

	cost := unitPrice.Mul(decimal.NewFromInt(quantity)).Add(incidentalCost)
	txn, err := m.player.ledger.Execute([]model.Line{
		{Account: accounts.Purchases, Amount: cost},
		{Account: accounts.Cash, Amount: cost.Neg()},
	}, fmt.Sprintf("purchase: %s", pos.Name()))
	if err != nil {
		return fmt.Errorf("posting purchase: %w", err)
	}
	m.player.recordAudit("purchase", pos.Name(), quantity, pos.BookValue(), txn.ID)
	return nil
}

// SalesManager handles selling merchandise for cash.
type SalesManager struct {
	player *Player
}

// SellProduct sells quantity units at salesPrice per unit, less any
// rebate, for cash. The consumed cost stays inside the position until
// the period-close settlement; only the revenue side posts here.
func (m *SalesManager) SellProduct(id uuid.UUID, quantity int64, salesPrice, rebate decimal.Decimal) error {
	pos, err := m.player.position(id)
	if err != nil {
		return err
	}

	proceeds := salesPrice.Mul(decimal.NewFromInt(quantity)).Sub(rebate)
	if !proceeds.IsPositive() {
		return fmt.Errorf("sale proceeds must be positive, got %s", proceeds)
	}

	if _, err := pos.Sell(quantity, salesPrice); err != nil {
		return fmt.Errorf("shipping %s: %w", pos.Name(), err)
	}

	txn, err := m.player.ledger.Execute([]model.Line{
		{Account: accounts.Cash, Amount: proceeds},
		{Account: accounts.SalesRevenue, Amount: proceeds.Neg()},
	}, fmt.Sprintf("sale: %s", pos.Name()))
	if err != nil {
		return fmt.Errorf("posting sale: %w", err)
	}
	m.player.recordAudit("sale", pos.Name(), -quantity, pos.BookValue(), txn.ID)
	return nil
}

// SetSalesPrice reposts the per-unit sales price of a product.
func (m *SalesManager) SetSalesPrice(id uuid.UUID, price decimal.Decimal) error {
	pos, err := m.player.position(id)
	if err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("sales price must be positive, got %s", price)
	}
	pos.SetSalesPrice(price)
	return nil
}

// BuildingManager handles depreciable fixed assets.
type BuildingManager struct {
	player *Player
}

// AcquireBuilding buys a building for cash and registers it under the
// player's name. Depreciation is posted by the master as game time
// advances.
func (m *BuildingManager) AcquireBuilding(name, address string, cost decimal.Decimal, usefulLifeYears int, salvageRatio decimal.Decimal, method fixedasset.DepreciationMethod) (uuid.UUID, error) {
	p := m.player
	a, err := fixedasset.New(name, cost, usefulLifeYears, salvageRatio, method,
		fixedasset.WithAddress(address),
		fixedasset.WithSampler(p.master.Sampler()),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating building %s: %w", name, err)
	}
	if err := a.SetOwner(p.name); err != nil {
		return uuid.Nil, err
	}

	txn, err := p.ledger.Execute([]model.Line{
		{Account: accounts.Buildings, Amount: cost},
		{Account: accounts.Cash, Amount: cost.Neg()},
	}, fmt.Sprintf("building acquired: %s", name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("posting acquisition: %w", err)
	}

	id := p.master.RegisterAsset(a)
	p.assetIDs = append(p.assetIDs, id)
	p.recordAudit("acquire_building", name, 0, a.BookValue(), txn.ID)
	return id, nil
}

// DisposeBuilding sells a building for cash proceeds. The posting clears
// the asset's cost and accumulated depreciation and realizes the gain or
// loss against net book value.
func (m *BuildingManager) DisposeBuilding(id uuid.UUID, proceeds decimal.Decimal) (fixedasset.Disposal, error) {
	p := m.player
	a, ok := p.master.Asset(id)
	if !ok {
		return fixedasset.Disposal{}, fmt.Errorf("asset %s not registered", id)
	}
	if a.Owner() != p.name {
		return fixedasset.Disposal{}, fmt.Errorf("asset %s is owned by %s, not %s", id, a.Owner(), p.name)
	}

	d, err := a.Dispose(proceeds)
	if err != nil {
		return fixedasset.Disposal{}, fmt.Errorf("disposing %s: %w", a.Name(), err)
	}

	lines := []model.Line{
		{Account: accounts.Cash, Amount: d.Proceeds},
		{Account: accounts.Buildings, Amount: d.Cost.Neg()},
	}
	if !d.AccumulatedDepreciation.IsZero() {
		lines = append(lines, model.Line{Account: accounts.AccumulatedDepreciation, Amount: d.AccumulatedDepreciation})
	}
	if d.Gain.IsPositive() {
		lines = append(lines, model.Line{Account: accounts.GainOnAssetSale, Amount: d.Gain.Neg()})
	}
	if d.Loss.IsPositive() {
		lines = append(lines, model.Line{Account: accounts.LossOnAssetSale, Amount: d.Loss})
	}

	txn, err := p.ledger.Execute(lines, fmt.Sprintf("building disposed: %s", a.Name()))
	if err != nil {
		return fixedasset.Disposal{}, fmt.Errorf("posting disposal: %w", err)
	}
	p.recordAudit("dispose_building", a.Name(), 0, decimal.Zero, txn.ID)
	return d, nil
}
