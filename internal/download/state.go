package download

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFileName is the resume marker kept next to the downloaded files.
const StateFileName = "state.json"

const stateDateLayout = "2006-01-02"

type state struct {
	Downloaded string `json:"downloaded"`
}

// LoadState reads the date of the last downloaded episode from dir.
// Returns ok=false when no state file exists yet.
func LoadState(dir string) (time.Time, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, StateFileName))
	if os.IsNotExist(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read state file: %w", err)
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, false, fmt.Errorf("parse state file: %w", err)
	}

	d, err := time.Parse(stateDateLayout, s.Downloaded)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse state date %q: %w", s.Downloaded, err)
	}
	return d, true, nil
}

// SaveState records the date of the last downloaded episode in dir.
func SaveState(dir string, date time.Time) error {
	data, err := json.Marshal(state{Downloaded: date.Format(stateDateLayout)})
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, StateFileName), data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
