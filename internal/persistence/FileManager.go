package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"calmd/internal/models"
	"calmd/internal/persistence/interfaces"
	"calmd/internal/providers"
	"calmd/internal/storage"
)

// FileManager writes and reads snapshots of stores that live in memory.
// Stores without snapshot support make every call a no-op.
type FileManager struct {
	store      storage.Snapshotter
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store storage.Store, logger providers.Logger) *FileManager {
	fm := &FileManager{
		compressor: compressor,
		logger:     logger,
	}
	if s, ok := store.(storage.Snapshotter); ok {
		fm.store = s
	}
	return fm
}

// Enabled reports whether the underlying store needs snapshots at all.
func (f *FileManager) Enabled() bool {
	return f.store != nil
}

func (f *FileManager) SaveToFile(fileName string) error {
	if f.store == nil {
		return nil
	}
	snapshot := f.store.Snapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the store from fileName. A missing file is a fresh start.
func (f *FileManager) LoadFromFile(fileName string) error {
	if f.store == nil {
		return nil
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeApp, "No snapshot at %s, starting empty", fileName)
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snapshot models.Storage
	if err := json.Unmarshal(decompressedData, &snapshot); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", fileName, err)
	}
	if snapshot.Version != models.SnapshotVersion {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s has version %d, expected %d", fileName, snapshot.Version, models.SnapshotVersion)
	}
	if err := f.store.Restore(&snapshot); err != nil {
		return fmt.Errorf("restore snapshot %s: %w", fileName, err)
	}
	f.logger.Infof(providers.TypeApp, "Restored %d users from %s", len(snapshot.Users), fileName)
	return nil
}
