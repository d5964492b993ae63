package evomarket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// GenerationLog is one JSONL record per reproduction pass. Reporting only:
// simulation state is never persisted or restored from these records.
type GenerationLog struct {
	Generation     int     `json:"generation"`
	Step           int     `json:"step"`
	Best           float64 `json:"best"`
	Median         float64 `json:"median"`
	Worst          float64 `json:"worst"`
	TrendFollowers int     `json:"trend_followers"`
	QLearners      int     `json:"q_learners"`
	BestStrategy   string  `json:"best_strategy"`
	SavedAtUnix    int64   `json:"saved_at_unix"`
}

// GenerationRecord builds the log record for the model's current generation.
func (m *MarketModel) GenerationRecord() GenerationLog {
	st := m.Stats()
	var bestStrategy string
	if best := m.bestInvestor(); best != nil {
		bestStrategy = fmt.Sprintf("%v", best.Strategy)
	}
	return GenerationLog{
		Generation:     m.Generation,
		Step:           m.Steps,
		Best:           st.Best,
		Median:         st.Median,
		Worst:          st.Worst,
		TrendFollowers: st.TrendFollowers,
		QLearners:      st.QLearners,
		BestStrategy:   bestStrategy,
		SavedAtUnix:    time.Now().Unix(),
	}
}

// AppendGenerationLog appends one record to the JSONL file at path.
func AppendGenerationLog(path string, rec GenerationLog) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = f.Write(b)
	return err
}

// LoadRecentGenerations reads the last N records from a generation log
// (simple + safe). Bad lines are skipped, not fatal.
func LoadRecentGenerations(path string, limit int) ([]GenerationLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Ring buffer of last N lines
	ring := make([]string, 0, limit)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if len(ring) < limit {
			ring = append(ring, line)
		} else {
			copy(ring, ring[1:])
			ring[len(ring)-1] = line
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]GenerationLog, 0, len(ring))
	for _, line := range ring {
		var rec GenerationLog
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
