package accounts

import "github.com/bokisim/bokisim/internal/model"

// Chart account names used by the engine's own postings. Kept as constants
// so the game layer and the default chart cannot drift apart.
const (
	Cash                    = "Cash"
	MerchandiseInventory    = "Merchandise Inventory"
	FixedAssets             = "Fixed Assets"
	Buildings               = "Buildings"
	AccumulatedDepreciation = "Accumulated Depreciation"
	DepreciationExpense     = "Depreciation Expense"
	GainOnAssetSale         = "Gain on Sale of Fixed Assets"
	LossOnAssetSale         = "Loss on Sale of Fixed Assets"
	SalesRevenue            = "Sales Revenue"
	Purchases               = "Purchases"
	CostOfGoodsSold         = "Cost of Goods Sold"
	InventoryShortageLoss   = "Inventory Shortage Loss"
	InventoryValuationLoss  = "Inventory Valuation Loss"
	LoansPayable            = "Loans Payable"
	RetainedEarnings        = "Retained Earnings"
	ShareCapital            = "Share Capital"
)

// DefaultChart returns the chart of accounts every player ledger starts
// with. Accumulated Depreciation sits on the asset side as a contra
// account and normally carries a credit (negative) balance.
func DefaultChart() []model.Account {
	bs := model.StatementBalanceSheet
	is := model.StatementIncomeStatement
	return []model.Account{
		{Name: Cash, Statement: bs, Category: model.CategoryAsset, SubCategory: "current"},
		{Name: MerchandiseInventory, Statement: bs, Category: model.CategoryAsset, SubCategory: "current"},
		{Name: FixedAssets, Statement: bs, Category: model.CategoryAsset, SubCategory: "fixed"},
		{Name: Buildings, Statement: bs, Category: model.CategoryAsset, SubCategory: "fixed"},
		{Name: AccumulatedDepreciation, Statement: bs, Category: model.CategoryAsset, SubCategory: "fixed"},
		{Name: LoansPayable, Statement: bs, Category: model.CategoryLiability},
		{Name: ShareCapital, Statement: bs, Category: model.CategoryEquity},
		{Name: RetainedEarnings, Statement: bs, Category: model.CategoryEquity},
		{Name: SalesRevenue, Statement: is, Category: model.CategoryRevenue},
		{Name: GainOnAssetSale, Statement: is, Category: model.CategoryRevenue},
		{Name: Purchases, Statement: is, Category: model.CategoryExpense},
		{Name: CostOfGoodsSold, Statement: is, Category: model.CategoryExpense},
		{Name: DepreciationExpense, Statement: is, Category: model.CategoryExpense},
		{Name: LossOnAssetSale, Statement: is, Category: model.CategoryExpense},
		{Name: InventoryShortageLoss, Statement: is, Category: model.CategoryExpense},
		{Name: InventoryValuationLoss, Statement: is, Category: model.CategoryExpense},
	}
}
