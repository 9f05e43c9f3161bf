package models

// Standing is a competitor's cumulative position in the event.
type Standing struct {
	CompetitorID int `json:"competitor_id"`
	TotalScore   int `json:"total_score"`
	Rank         int `json:"rank"`
}

// FinalPlacing is one row of the terminal results table.
type FinalPlacing struct {
	Position     int  `json:"position"`
	CompetitorID int  `json:"competitor_id"`
	Tier         Tier `json:"tier"`
	Match        int  `json:"match"`
	Placement    *int `json:"placement"`
	TotalScore   int  `json:"total_score"`
}
