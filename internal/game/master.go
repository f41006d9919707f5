// Package game orchestrates the turn-based simulation: the shared clock,
// the asset registry, and the player-level operations that translate
// economic events into ledger postings.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bokisim/bokisim/internal/accounts"
	"github.com/bokisim/bokisim/internal/fixedasset"
	"github.com/bokisim/bokisim/internal/inventory"
	"github.com/bokisim/bokisim/internal/model"
)

// Event is one entry in the game event log.
type Event struct {
	Date    time.Time
	Message string
}

// Master owns the game clock and the registry of all assets and
// inventory positions. Identifier issuance is its job alone; entities
// never know their own IDs.
type Master struct {
	current   time.Time
	assets    map[uuid.UUID]*fixedasset.Asset
	positions map[uuid.UUID]*inventory.Position
	events    []Event
	sampler   inventory.Sampler
	logger    zerolog.Logger

	// Accounting-period length in days. Zero disables automatic closes;
	// callers then close books explicitly.
	periodDays int
	dayCursor  int
}

// MasterOption configures a Master.
type MasterOption func(*Master)

// WithSampler injects the market-price sampler shared by all registered
// entities.
func WithSampler(s inventory.Sampler) MasterOption {
	return func(m *Master) { m.sampler = s }
}

// WithLogger sets the structured logger for game events.
func WithLogger(logger zerolog.Logger) MasterOption {
	return func(m *Master) { m.logger = logger }
}

// WithPeriodDays enables automatic period closes: every time the clock
// crosses a multiple of days, AdvanceDays closes the books of the
// players it was given.
func WithPeriodDays(days int) MasterOption {
	return func(m *Master) { m.periodDays = days }
}

// WithSeed seeds the default gaussian sampler deterministically.
func WithSeed(seed int64) MasterOption {
	return func(m *Master) {
		m.sampler = inventory.GaussianSampler(rand.New(rand.NewSource(seed)))
	}
}

// NewMaster creates a Master with the game clock set to startDate.
func NewMaster(startDate time.Time, opts ...MasterOption) *Master {
	m := &Master{
		current:   startDate,
		assets:    make(map[uuid.UUID]*fixedasset.Asset),
		positions: make(map[uuid.UUID]*inventory.Position),
		sampler:   inventory.GaussianSampler(rand.New(rand.NewSource(time.Now().UnixNano()))),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the current game date. Injected into each player ledger as
// its clock.
func (m *Master) Now() time.Time {
	return m.current
}

// Sampler returns the shared market-price sampler.
func (m *Master) Sampler() inventory.Sampler {
	return m.sampler
}

// RegisterAsset registers a fixed asset and returns its ID.
func (m *Master) RegisterAsset(a *fixedasset.Asset) uuid.UUID {
	id := uuid.New()
	m.assets[id] = a
	m.logEvent(fmt.Sprintf("asset %q registered", a.Name()))
	return id
}

// Asset returns a registered fixed asset.
func (m *Master) Asset(id uuid.UUID) (*fixedasset.Asset, bool) {
	a, ok := m.assets[id]
	return a, ok
}

// RegisterPosition registers an inventory position and returns its ID.
func (m *Master) RegisterPosition(p *inventory.Position) uuid.UUID {
	id := uuid.New()
	m.positions[id] = p
	m.logEvent(fmt.Sprintf("product %q registered", p.Name()))
	return id
}

// Position returns a registered inventory position.
func (m *Master) Position(id uuid.UUID) (*inventory.Position, bool) {
	p, ok := m.positions[id]
	return p, ok
}

// Events returns a copy of the game event log.
func (m *Master) Events() []Event {
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// AdvanceDays moves the game clock forward and applies elapsed-time
// effects to every player: each live owned asset is depreciated and the
// total posted to that player's ledger.
func (m *Master) AdvanceDays(days int, players ...*Player) error {
	if days <= 0 {
		return fmt.Errorf("days must be positive, got %d", days)
	}
	m.current = m.current.AddDate(0, 0, days)
	m.logEvent(fmt.Sprintf("clock advanced %d days to %s", days, m.current.Format("2006-01-02")))

	for _, p := range players {
		if err := m.depreciatePlayerAssets(p, days); err != nil {
			return fmt.Errorf("advancing player %s: %w", p.Name(), err)
		}
	}

	if m.periodDays > 0 {
		m.dayCursor += days
		for m.dayCursor >= m.periodDays {
			m.dayCursor -= m.periodDays
			for _, p := range players {
				if _, err := p.CloseBooks(nil); err != nil {
					return fmt.Errorf("closing books for %s: %w", p.Name(), err)
				}
			}
			m.logEvent("accounting period closed")
		}
	}
	return nil
}

// AdvanceMonths moves the clock forward by calendar months, applying
// elapsed-time effects for the actual number of days spanned.
func (m *Master) AdvanceMonths(months int, players ...*Player) error {
	if months <= 0 {
		return fmt.Errorf("months must be positive, got %d", months)
	}
	days := int(m.current.AddDate(0, months, 0).Sub(m.current).Hours() / 24)
	return m.AdvanceDays(days, players...)
}

func (m *Master) depreciatePlayerAssets(p *Player, days int) error {
	total := decimal.Zero
	for _, id := range p.assetIDs {
		a, ok := m.assets[id]
		if !ok || a.Disposed() {
			continue
		}
		charge, err := a.ApplyDepreciation(days)
		if err != nil {
			return fmt.Errorf("depreciating %s: %w", a.Name(), err)
		}
		total = total.Add(charge)
	}

	if total.IsZero() {
		return nil
	}
	_, err := p.ledger.Execute([]model.Line{
		{Account: accounts.DepreciationExpense, Amount: total},
		{Account: accounts.AccumulatedDepreciation, Amount: total.Neg()},
	}, "periodic depreciation")
	if err != nil {
		return fmt.Errorf("posting depreciation: %w", err)
	}

	m.logger.Debug().
		Str("player", p.Name()).
		Str("depreciation", total.String()).
		Msg("depreciation applied")
	return nil
}

// TradeRequest is one validated cross-player sale: the seller ships from
// their position, the buyer receives into theirs, and each side posts to
// its own ledger. No transaction ever spans two ledgers.
type TradeRequest struct {
	Seller         *Player
	SellerPosition uuid.UUID
	Buyer          *Player
	BuyerPosition  uuid.UUID
	Quantity       int64
	UnitPrice      decimal.Decimal
}

// ExecuteTrade validates the request once, then derives the two ledger
// postings from it.
func (m *Master) ExecuteTrade(req TradeRequest) error {
	sellerPos, ok := m.positions[req.SellerPosition]
	if !ok {
		return fmt.Errorf("seller position %s not registered", req.SellerPosition)
	}
	buyerPos, ok := m.positions[req.BuyerPosition]
	if !ok {
		return fmt.Errorf("buyer position %s not registered", req.BuyerPosition)
	}
	if req.Quantity <= 0 {
		return inventory.ErrNonPositiveQuantity
	}
	if req.Quantity > sellerPos.Quantity() {
		return inventory.InsufficientStockError{Requested: req.Quantity, OnHand: sellerPos.Quantity()}
	}
	if !req.UnitPrice.IsPositive() {
		return fmt.Errorf("trade unit price must be positive, got %s", req.UnitPrice)
	}

	if err := req.Seller.Sales().SellProduct(req.SellerPosition, req.Quantity, req.UnitPrice, decimal.Zero); err != nil {
		return fmt.Errorf("seller side: %w", err)
	}
	if err := req.Buyer.Purchasing().buyIntoPosition(buyerPos, req.Quantity, req.UnitPrice, decimal.Zero); err != nil {
		return fmt.Errorf("buyer side: %w", err)
	}

	m.logEvent(fmt.Sprintf("trade: %s sold %d×%s of %q to %s",
		req.Seller.Name(), req.Quantity, req.UnitPrice, sellerPos.Name(), req.Buyer.Name()))
	return nil
}

func (m *Master) logEvent(message string) {
	m.events = append(m.events, Event{Date: m.current, Message: message})
	m.logger.Info().Time("game_date", m.current).Msg(message)
}
