// Package accounts loads and serves the chart of accounts. The chart is
// injected configuration: the ledger consumes it once at construction and
// never hardcodes account structure.
package accounts

import (
	"fmt"
	"os"

	"github.com/bokisim/bokisim/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byName   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accts []model.Account) *Service {
	byName := make(map[string]model.Account, len(accts))
	for _, a := range accts {
		byName[a.Name] = a
	}
	return &Service{accounts: accts, byName: byName}
}

// Load reads a chart-of-accounts CSV from path and returns a Service.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadChart(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in chart order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by name.
func (s *Service) Get(name string) (model.Account, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Exists reports whether an account name exists in the chart.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ByCategory returns all accounts of the given category.
func (s *Service) ByCategory(c model.Category) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Category == c {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to a CSV file at path.
func (s *Service) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteChart(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
