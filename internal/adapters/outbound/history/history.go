package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openkraft/inspections/internal/domain"
	"github.com/openkraft/inspections/internal/fsutil"
)

const historyFile = ".inspections/history/runs.json"

// FileHistory implements domain.RunHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(projectPath string, record domain.RunRecord) error {
	records, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(filepath.Join(projectPath, historyFile), data, 0644)
}

func (h *FileHistory) Load(projectPath string) ([]domain.RunRecord, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	return records, nil
}
