package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/sortviz/internal/bench"
	"github.com/san-kum/sortviz/internal/sorter"
	"github.com/san-kum/sortviz/internal/step"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Shape          string          `json:"shape"`
	Size           int             `json:"size"`
	Trials         int             `json:"trials"`
	Seed           int64           `json:"seed"`
	HeapInstrument bool            `json:"heap_instrumented"`
	Summaries      []bench.Summary `json:"summaries"`
}

// TrialCounts is one row of counts.csv.
type TrialCounts struct {
	Algorithm string        `json:"algorithm"`
	Trial     int           `json:"trial"`
	Seed      int64         `json:"seed"`
	Counts    step.Counts   `json:"counts"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

var countsHeader = []string{"algorithm", "trial", "seed", "compares", "swaps", "overwrites", "highlights", "elapsed_ns"}

func (s *Store) Save(res *bench.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("bench_%s_%d", res.Config.Shape, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Timestamp:      now,
		Shape:          string(res.Config.Shape),
		Size:           res.Config.Size,
		Trials:         res.Config.Trials,
		Seed:           res.Config.Seed,
		HeapInstrument: res.Config.Options.InstrumentHeap,
		Summaries:      res.Summaries,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "counts.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(countsHeader); err != nil {
		return "", err
	}
	for _, t := range res.Trials {
		row := []string{
			t.Algorithm.String(),
			strconv.Itoa(t.Index),
			strconv.FormatInt(t.Seed, 10),
			strconv.Itoa(t.Counts.Compares),
			strconv.Itoa(t.Counts.Swaps),
			strconv.Itoa(t.Counts.Overwrites),
			strconv.Itoa(t.Counts.Highlights),
			strconv.FormatInt(t.Elapsed.Nanoseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadCounts(runID string) ([]TrialCounts, error) {
	csvPath := filepath.Join(s.baseDir, runID, "counts.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(countsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []TrialCounts{}, nil
	}

	rows := make([]TrialCounts, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseCounts(record)
		if err != nil {
			return nil, fmt.Errorf("counts.csv line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseCounts(record []string) (TrialCounts, error) {
	ints := make([]int64, len(record)-1)
	for j, field := range record[1:] {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return TrialCounts{}, err
		}
		ints[j] = v
	}
	if _, err := sorter.ParseAlgorithm(record[0]); err != nil {
		return TrialCounts{}, err
	}
	return TrialCounts{
		Algorithm: record[0],
		Trial:     int(ints[0]),
		Seed:      ints[1],
		Counts: step.Counts{
			Compares:   int(ints[2]),
			Swaps:      int(ints[3]),
			Overwrites: int(ints[4]),
			Highlights: int(ints[5]),
		},
		Elapsed: time.Duration(ints[6]),
	}, nil
}

// Series groups the per-trial step totals by algorithm, in trial order.
func Series(rows []TrialCounts) map[string][]float64 {
	out := make(map[string][]float64)
	for _, r := range rows {
		out[r.Algorithm] = append(out[r.Algorithm], float64(r.Counts.Total()))
	}
	return out
}
