package accounts

import "github.com/ledgerbook/ledgerbook/internal/model"

// DefaultChart returns the default chart of accounts for an entity type.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "sole_proprietorship":
		return soleProprietorshipChart()
	default:
		return privateLimitedChart()
	}
}

func privateLimitedChart() []model.Account {
	return []model.Account{
		{ID: 1010, Name: "Cash", Type: model.AccountTypeAsset, Description: "Cash in hand"},
		{ID: 1020, Name: "Bank", Type: model.AccountTypeAsset, Description: "Operating bank account"},
		{ID: 1100, Name: "Accounts Receivable", Type: model.AccountTypeAsset, Description: "Amounts due from customers"},
		{ID: 2010, Name: "Accounts Payable", Type: model.AccountTypeLiability, Description: "Amounts due to suppliers"},
		{ID: 2100, Name: "VAT Payable", Type: model.AccountTypeLiability, Description: "Output VAT collected"},
		{ID: 3010, Name: "Capital", Type: model.AccountTypeEquity, Description: "Paid-up capital"},
		{ID: 4010, Name: "Sales", Type: model.AccountTypeRevenue},
		{ID: 5010, Name: "Purchase", Type: model.AccountTypeExpense},
		{ID: 5020, Name: "Salary", Type: model.AccountTypeExpense, Description: "Staff salaries"},
		{ID: 5030, Name: "Rent", Type: model.AccountTypeExpense, Description: "Office rent"},
		{ID: 5040, Name: "Utilities", Type: model.AccountTypeExpense, Description: "Electricity, gas, water"},
		{ID: 5050, Name: "Office Supplies", Type: model.AccountTypeExpense, Description: "Stationery and consumables"},
	}
}

func soleProprietorshipChart() []model.Account {
	chart := privateLimitedChart()
	for i := range chart {
		if chart[i].Name == "Capital" {
			chart[i].Name = "Owner's Capital"
			chart[i].Description = "Proprietor's capital"
		}
	}
	return append(chart, model.Account{ID: 3020, Name: "Drawings", Type: model.AccountTypeEquity, ParentID: 3010, Description: "Owner withdrawals"})
}
