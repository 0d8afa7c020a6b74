package domain

// DateVote aggregates the voters available on one calendar day.
// Date is an ISO 8601 date string (YYYY-MM-DD, no time component).
// Count always equals len(Voters). Dates without voters are not kept.
type DateVote struct {
	Date   string   `json:"date"`
	Count  int      `json:"count"`
	Voters []string `json:"voters"`
}
