package sheet

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one amount column (e.g. "Amount" with value "1.234,50").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns; only debits are expenses.
	amountSplit
)

// Profile describes the column layout of a supported expense sheet.
// Header names are matched case-insensitively.
type Profile struct {
	Name        string
	DateCol     string
	TitleCol    string
	CategoryCol string
	CategoryReq bool
	DescCol     string // optional
	AmountMode  amountMode
	AmountCol   string // used when AmountMode == amountSingle
	DebitCol    string // used when AmountMode == amountSplit
	CreditCol   string // used when AmountMode == amountSplit
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.TitleCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	if p.CategoryReq {
		cols = append(cols, p.CategoryCol)
	}

	return cols
}

// profiles is the ordered list of layouts tried during auto-detection.
// More specific profiles come first.
var profiles = []Profile{
	{
		Name:        "planner",
		DateCol:     "date",
		TitleCol:    "title",
		CategoryCol: "category",
		CategoryReq: true,
		DescCol:     "description",
		AmountMode:  amountSingle,
		AmountCol:   "amount",
	},
	{
		Name:        "statement",
		DateCol:     "date",
		TitleCol:    "description",
		CategoryCol: "category",
		AmountMode:  amountSplit,
		DebitCol:    "debit",
		CreditCol:   "credit",
	},
}
