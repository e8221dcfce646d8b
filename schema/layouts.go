package schema

// LeadsLayout names the columns read by the leads page.
type LeadsLayout struct {
	Timestamp    string   `mapstructure:"timestamp" json:"timestamp"`
	TopTen       []string `mapstructure:"top-ten" json:"top_ten"`
	TopFive      []string `mapstructure:"top-five" json:"top_five"`
	RepeatColumn string   `mapstructure:"repeat-column" json:"repeat_column"`
	RepeatMarker string   `mapstructure:"repeat-marker" json:"repeat_marker"`
	Periods      []string `mapstructure:"periods" json:"periods"`
}

// OverviewLayout names the columns read by the overview page.
type OverviewLayout struct {
	Timestamp    string   `mapstructure:"timestamp" json:"timestamp"`
	OverallScore string   `mapstructure:"overall-score" json:"overall_score"`
	SubScores    []string `mapstructure:"sub-scores" json:"sub_scores"`
	Completed    string   `mapstructure:"completed" json:"completed"`
	Site         string   `mapstructure:"site" json:"site"`
	Review       string   `mapstructure:"review" json:"review"`
	Periods      []string `mapstructure:"periods" json:"periods"`
}

// DefaultLeadsLayout returns the columns of the recruitment leads export.
func DefaultLeadsLayout() LeadsLayout {
	return LeadsLayout{
		Timestamp:    "INVITATIONDT",
		TopTen:       []string{"CAMPAIGNTITLE", "SOURCE", "ASSIGNEDMANAGER", "FOLDER"},
		TopFive:      []string{"COMPLETIONMETHOD", "CAMPAIGN_TYPE", "CAMPAIGN_SITE"},
		RepeatColumn: "REPEATAPPLICATION",
		RepeatMarker: "t",
		Periods:      []string{Last30Days, Last12Weeks, Last1Year, AllTime},
	}
}

// DefaultOverviewLayout returns the columns of the daily assessment export.
func DefaultOverviewLayout() OverviewLayout {
	return OverviewLayout{
		Timestamp:    "DATE_DAY",
		OverallScore: "TALKSCORE_OVERALL",
		SubScores: []string{
			"TALKSCORE_VOCAB",
			"TALKSCORE_FLUENCY",
			"TALKSCORE_GRAMMAR",
			"TALKSCORE_PRONUNCIATION",
		},
		Completed: "TEST_COMPLETED",
		Site:      "CAMP_SITE",
		Review:    "FOR_TS_REVIEW",
		Periods:   []string{Last30Days, Last12Weeks, Last12Months},
	}
}
