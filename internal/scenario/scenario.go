// Package scenario loads scripted game events from CSV and replays them
// against a running game. Scripts drive demos and regression scenarios
// without hand-writing orchestration code.
package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bokisim/bokisim/internal/game"
	"github.com/bokisim/bokisim/internal/inventory"
)

// Event is one scripted action. Fields beyond Action are interpreted per
// action; unused ones stay at their zero value.
type Event struct {
	Turn     int
	Player   string
	Action   string
	Item     string
	Quantity int64
	Price    decimal.Decimal
}

// Supported actions.
const (
	ActionAcquireProduct = "acquire_product"
	ActionPurchase       = "purchase"
	ActionSell           = "sell"
	ActionAdvanceDays    = "advance_days"
	ActionCloseBooks     = "close_books"
)

const (
	numFields   = 6
	colTurn     = 0
	colPlayer   = 1
	colAction   = 2
	colItem     = 3
	colQuantity = 4
	colPrice    = 5
)

// Parse reads scripted events from CSV. The first row is a header.
func Parse(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading scenario CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var events []Event
	for i, rec := range records[1:] {
		e, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// Load reads a scenario file.
func Load(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseRow(rec []string) (Event, error) {
	turn, err := strconv.Atoi(rec[colTurn])
	if err != nil {
		return Event{}, fmt.Errorf("parsing turn %q: %w", rec[colTurn], err)
	}

	var quantity int64
	if rec[colQuantity] != "" {
		quantity, err = strconv.ParseInt(rec[colQuantity], 10, 64)
		if err != nil {
			return Event{}, fmt.Errorf("parsing quantity %q: %w", rec[colQuantity], err)
		}
	}

	price := decimal.Zero
	if rec[colPrice] != "" {
		price, err = decimal.NewFromString(rec[colPrice])
		if err != nil {
			return Event{}, fmt.Errorf("parsing price %q: %w", rec[colPrice], err)
		}
	}

	return Event{
		Turn:     turn,
		Player:   rec[colPlayer],
		Action:   rec[colAction],
		Item:     rec[colItem],
		Quantity: quantity,
		Price:    price,
	}, nil
}

// Runner replays events against a master and its players. Product IDs
// are resolved by player name plus item name, so scripts never carry
// registry IDs.
type Runner struct {
	master   *game.Master
	players  map[string]*game.Player
	products map[string]uuid.UUID
}

// NewRunner creates a Runner for the given players.
func NewRunner(master *game.Master, players ...*game.Player) *Runner {
	byName := make(map[string]*game.Player, len(players))
	for _, p := range players {
		byName[p.Name()] = p
	}
	return &Runner{
		master:   master,
		players:  byName,
		products: make(map[string]uuid.UUID),
	}
}

// Run applies all events in order, stopping at the first failure.
func (r *Runner) Run(events []Event) error {
	for i, e := range events {
		if err := r.apply(e); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, e.Action, err)
		}
	}
	return nil
}

func (r *Runner) apply(e Event) error {
	if e.Action == ActionAdvanceDays {
		all := make([]*game.Player, 0, len(r.players))
		for _, p := range r.players {
			all = append(all, p)
		}
		return r.master.AdvanceDays(int(e.Quantity), all...)
	}

	p, ok := r.players[e.Player]
	if !ok {
		return fmt.Errorf("unknown player %q", e.Player)
	}

	switch e.Action {
	case ActionAcquireProduct:
		id, err := p.Purchasing().AcquireProduct(e.Item, e.Quantity, e.Price, inventory.MethodFIFO)
		if err != nil {
			return err
		}
		r.products[e.Player+"/"+e.Item] = id
		return nil
	case ActionPurchase:
		id, err := r.product(e)
		if err != nil {
			return err
		}
		return p.Purchasing().PurchaseProduct(id, e.Quantity, e.Price, decimal.Zero)
	case ActionSell:
		id, err := r.product(e)
		if err != nil {
			return err
		}
		return p.Sales().SellProduct(id, e.Quantity, e.Price, decimal.Zero)
	case ActionCloseBooks:
		_, err := p.CloseBooks(nil)
		return err
	default:
		return fmt.Errorf("unknown action %q", e.Action)
	}
}

func (r *Runner) product(e Event) (uuid.UUID, error) {
	id, ok := r.products[e.Player+"/"+e.Item]
	if !ok {
		return uuid.Nil, fmt.Errorf("player %q has no product %q", e.Player, e.Item)
	}
	return id, nil
}
