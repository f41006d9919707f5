package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bokisim/bokisim/internal/accounts"
	"github.com/bokisim/bokisim/internal/audit"
	"github.com/bokisim/bokisim/internal/inventory"
	"github.com/bokisim/bokisim/internal/ledger"
	"github.com/bokisim/bokisim/internal/model"
)

// Player is one participant: a name, a ledger, and the IDs of the
// products and fixed assets it holds. All economic activity flows
// through the managers so every event reaches the books.
type Player struct {
	name   string
	master *Master
	ledger *ledger.Ledger

	productIDs []uuid.UUID
	assetIDs   []uuid.UUID

	purchasing *PurchaseManager
	sales      *SalesManager
	buildings  *BuildingManager

	chart      []model.Account
	ledgerOpts []ledger.Option
	auditRoot  string
	logger     zerolog.Logger
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithPlayerLogger sets the player's structured logger.
func WithPlayerLogger(logger zerolog.Logger) PlayerOption {
	return func(p *Player) { p.logger = logger }
}

// WithChart replaces the built-in default chart of accounts. The chart
// must still carry the accounts the engine posts to (cash, share
// capital, the inventory and depreciation accounts); missing ones
// surface as InvalidAccountError from the first posting that needs them.
func WithChart(chart []model.Account) PlayerOption {
	return func(p *Player) { p.chart = chart }
}

// WithAuditRoot enables the CSV audit trail under root/logs.
func WithAuditRoot(root string) PlayerOption {
	return func(p *Player) { p.auditRoot = root }
}

// WithRecorder attaches a persistence recorder to the player's ledger.
func WithRecorder(rec ledger.Recorder) PlayerOption {
	return func(p *Player) {
		p.ledgerOpts = append(p.ledgerOpts, ledger.WithRecorder(rec))
	}
}

// NewPlayer creates a player with a ledger clocked by the master and the
// initial capital contribution posted as cash against share capital. The
// ledger starts from the default chart of accounts unless WithChart
// supplies one.
func NewPlayer(name string, master *Master, initialCash decimal.Decimal, opts ...PlayerOption) (*Player, error) {
	if initialCash.IsNegative() {
		return nil, fmt.Errorf("initial cash must not be negative, got %s", initialCash)
	}

	p := &Player{
		name:   name,
		master: master,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	chart := p.chart
	if chart == nil {
		chart = accounts.DefaultChart()
	}
	ledgerOpts := append([]ledger.Option{ledger.WithClock(master.Now)}, p.ledgerOpts...)
	l, err := ledger.New(chart, ledgerOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating ledger for %s: %w", name, err)
	}
	p.ledger = l

	p.purchasing = &PurchaseManager{player: p}
	p.sales = &SalesManager{player: p}
	p.buildings = &BuildingManager{player: p}

	if initialCash.IsPositive() {
		_, err = l.Execute([]model.Line{
			{Account: accounts.Cash, Amount: initialCash},
			{Account: accounts.ShareCapital, Amount: initialCash.Neg()},
		}, "initial capital contribution")
		if err != nil {
			return nil, fmt.Errorf("posting initial capital: %w", err)
		}
	}

	p.logger.Info().Str("player", name).Str("initial_cash", initialCash.String()).Msg("player created")
	return p, nil
}

// Name returns the player's name.
func (p *Player) Name() string { return p.name }

// Ledger exposes the player's books for reporting.
func (p *Player) Ledger() *ledger.Ledger { return p.ledger }

// Purchasing returns the purchase manager.
func (p *Player) Purchasing() *PurchaseManager { return p.purchasing }

// Sales returns the sales manager.
func (p *Player) Sales() *SalesManager { return p.sales }

// Buildings returns the building manager.
func (p *Player) Buildings() *BuildingManager { return p.buildings }

// ProductIDs returns the registry IDs of the player's products.
func (p *Player) ProductIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(p.productIDs))
	copy(out, p.productIDs)
	return out
}

// AssetIDs returns the registry IDs of the player's fixed assets.
func (p *Player) AssetIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(p.assetIDs))
	copy(out, p.assetIDs)
	return out
}

// recordAudit appends one audit row when a trail is configured. Audit
// failures are logged, never fatal: the books already balanced.
func (p *Player) recordAudit(action, item string, delta int64, bookValue decimal.Decimal, txnID string) {
	if p.auditRoot == "" {
		return
	}
	err := audit.Append(p.auditRoot, []audit.Entry{{
		Timestamp:     p.master.Now(),
		Player:        p.name,
		Action:        action,
		Item:          item,
		QuantityDelta: delta,
		BookValue:     bookValue,
		TransactionID: txnID,
	}})
	if err != nil {
		p.logger.Warn().Err(err).Str("action", action).Msg("audit append failed")
	}
}

// position resolves one of the player's own product IDs.
func (p *Player) position(id uuid.UUID) (*inventory.Position, error) {
	pos, ok := p.master.Position(id)
	if !ok {
		return nil, fmt.Errorf("product %s not registered", id)
	}
	return pos, nil
}

// CloseBooks runs the period close: each product is counted and its cost
// of goods sold settled, the ledger period is closed into retained
// earnings, and the positions open their next reconciliation cycle.
// Shrinkage maps product ID to units found missing; absent entries
// count as zero.
func (p *Player) CloseBooks(shrinkage map[uuid.UUID]int64) (map[string]decimal.Decimal, error) {
	for _, id := range p.productIDs {
		if err := p.settleProduct(id, shrinkage[id]); err != nil {
			return nil, fmt.Errorf("settling product %s: %w", id, err)
		}
	}

	snapshot, err := p.ledger.ClosePeriod(accounts.RetainedEarnings)
	if err != nil {
		return nil, fmt.Errorf("closing period: %w", err)
	}

	for _, id := range p.productIDs {
		pos, err := p.position(id)
		if err != nil {
			return nil, err
		}
		pos.MarkPeriodOpen()
	}

	p.logger.Info().
		Str("player", p.name).
		Str("net_income", snapshot[ledger.NetIncomeKey].String()).
		Msg("books closed")
	return snapshot, nil
}

// settleProduct posts the period's cost of goods sold for one product.
// The posting is derived from the reconciliation identity
//
//	COGS = opening + purchases − closing − shortage − valuation loss
//
// so the merchandise inventory account lands exactly on the position's
// closing book value.
func (p *Player) settleProduct(id uuid.UUID, shrinkage int64) error {
	pos, err := p.position(id)
	if err != nil {
		return err
	}

	adj, err := pos.PerformAdjustment(shrinkage)
	if err != nil {
		return fmt.Errorf("adjusting %s: %w", pos.Name(), err)
	}

	purchases := pos.PeriodPurchases()
	cogs := adj.OpeningBookValue.
		Add(purchases).
		Sub(adj.NewBookValue).
		Sub(adj.Shortage).
		Sub(adj.ValuationLoss)

	lines := make([]model.Line, 0, 5)
	if !cogs.IsZero() {
		lines = append(lines, model.Line{Account: accounts.CostOfGoodsSold, Amount: cogs})
	}
	if !adj.Shortage.IsZero() {
		lines = append(lines, model.Line{Account: accounts.InventoryShortageLoss, Amount: adj.Shortage})
	}
	if !adj.ValuationLoss.IsZero() {
		lines = append(lines, model.Line{Account: accounts.InventoryValuationLoss, Amount: adj.ValuationLoss})
	}
	if !purchases.IsZero() {
		lines = append(lines, model.Line{Account: accounts.Purchases, Amount: purchases.Neg()})
	}
	inventoryDelta := adj.NewBookValue.Sub(adj.OpeningBookValue)
	if !inventoryDelta.IsZero() {
		lines = append(lines, model.Line{Account: accounts.MerchandiseInventory, Amount: inventoryDelta})
	}

	if len(lines) < 2 {
		// Nothing moved this period.
		return nil
	}

	txn, err := p.ledger.Execute(lines, fmt.Sprintf("cost of goods sold settlement: %s", pos.Name()))
	if err != nil {
		return fmt.Errorf("posting settlement: %w", err)
	}
	p.recordAudit("settlement", pos.Name(), -shrinkage, adj.NewBookValue, txn.ID)
	return nil
}
