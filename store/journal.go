package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/model"
)

// Journal is the append-only secondary copy of every inserted post, one JSON
// record per line. It is write-only for the live system: nothing reads it
// back, it exists so that a corrupted primary store can be rebuilt and
// audited offline.
type Journal struct {
	m    sync.Mutex
	file *os.File
}

func OpenJournal(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "fail to create journal dir")
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "fail to open journal")
	}
	return &Journal{file: f}, nil
}

func (j *Journal) Append(p *model.Post) error {
	line, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "fail to marshal post for journal")
	}
	line = append(line, '\n')

	j.m.Lock()
	defer j.m.Unlock()
	if _, err := j.file.Write(line); err != nil {
		return errors.Wrap(err, "fail to append to journal")
	}
	return nil
}

func (j *Journal) Close() error {
	j.m.Lock()
	defer j.m.Unlock()
	return j.file.Close()
}
