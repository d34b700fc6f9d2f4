package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named by the current timestamp.
func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSession(metric SessionMetric) error {
	path := filepath.Join(w.baseDir, "session.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"start_time", "duration", "turns", "gates", "swaps", "measurements", "combats", "conquests"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write session header: %w", err)
	}

	row := []string{
		metric.StartTime.Format(time.RFC3339),
		metric.Duration.String(),
		strconv.Itoa(metric.Turns),
		strconv.Itoa(metric.Gates),
		strconv.Itoa(metric.Swaps),
		strconv.Itoa(metric.Measurements),
		strconv.Itoa(metric.Combats),
		strconv.Itoa(metric.Conquests),
	}
	err = writer.Write(row)
	if err != nil {
		return fmt.Errorf("failed to write session row: %w", err)
	}
	return nil
}

func (w *Writer) WriteCombatRecords(records []CombatRecord) error {
	path := filepath.Join(w.baseDir, "combat_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create combat records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"turn", "player", "attacker", "defender", "attacker_basis", "defender_basis", "attacker_value", "defender_value", "attacker_won", "time"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write combat records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Turn),
			strconv.Itoa(record.Player),
			record.Attacker,
			record.Defender,
			record.AttackerBasis,
			record.DefenderBasis,
			strconv.FormatUint(record.AttackerValue, 10),
			strconv.FormatUint(record.DefenderValue, 10),
			strconv.FormatBool(record.AttackerWon),
			record.Time.Format(time.RFC3339),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write combat record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "seed", "winner", "duration", "turns", "gates", "swaps", "measurements", "combats", "conquests"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.Winner),
			record.Duration.String(),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.Gates),
			strconv.Itoa(record.Swaps),
			strconv.Itoa(record.Measurements),
			strconv.Itoa(record.Combats),
			strconv.Itoa(record.Conquests),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	return nil
}
