package booking

import "github.com/shopspring/decimal"

// DeriveFinancials computes Income and Disbursements for one row from the
// income catalog. Income is always recomputed from the raw column values on
// the row, so re-running the pipeline over already-processed rows cannot
// double-count. Disbursements = Revenue Total - Income, exactly.
func DeriveFinancials(row Row, catalog []IncomeColumn) (income, disbursements decimal.Decimal) {
	income = decimal.Zero
	for _, col := range catalog {
		val := ParseDecimal(row.Extra[col.Name])
		if col.Sign < 0 {
			income = income.Sub(val)
		} else {
			income = income.Add(val)
		}
	}
	return income, row.RevenueTotal.Sub(income)
}
