package orchestrator

// Status is the ephemeral progress of a run. It is never persisted.
type Status struct {
	IsProcessing    bool     `json:"isProcessing"`
	CurrentRound    int      `json:"currentRound"`
	TotalRounds     int      `json:"totalRounds"`
	RoundName       string   `json:"roundName"`
	RoundResults    []string `json:"roundResults"`
	CompletedRounds []int    `json:"completedRounds"`
}

func idleStatus() Status {
	return Status{TotalRounds: TotalRounds}
}

func (s Status) clone() Status {
	s.RoundResults = append([]string(nil), s.RoundResults...)
	s.CompletedRounds = append([]int(nil), s.CompletedRounds...)
	return s
}
