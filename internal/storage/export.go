package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Trials []TrialCounts `json:"trials,omitempty"`
}

// Export writes a stored run as indented JSON. Per-trial counts are included
// when withTrials is set.
func (s *Store) Export(w io.Writer, runID string, withTrials bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	data := ExportData{Run: *meta}
	if withTrials {
		if data.Trials, err = s.LoadCounts(runID); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
