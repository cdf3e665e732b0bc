package storage

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// File is a Storage backed by a single JSON file of key/value pairs.
// Writes rewrite the whole file atomically (temp file + rename), so a crash
// mid-write never leaves a truncated state file behind.
type File struct {
	path string

	mu    sync.Mutex
	slots map[string]string
}

// NewFile opens (or creates) the state file at path. An unreadable or
// corrupt file is treated as empty: local state is a cache, not a source of
// truth, and starting over beats refusing to start.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create state dir")
	}

	f := &File{path: path, slots: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.Wrap(err, "read state file")
	}
	if err := f.decode(data); err != nil {
		// Corrupt state file: drop it and start clean.
		f.slots = make(map[string]string)
	}
	return f, nil
}

func (f *File) decode(data []byte) error {
	d := jx.DecodeBytes(data)
	return d.Obj(func(d *jx.Decoder, key string) error {
		v, err := d.Str()
		if err != nil {
			return err
		}
		f.slots[key] = v
		return nil
	})
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.slots[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[key] = value
	return f.flush()
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.slots[key]; !ok {
		return nil
	}
	delete(f.slots, key)
	return f.flush()
}

// flush rewrites the state file. Caller must hold f.mu.
func (f *File) flush() error {
	var e jx.Encoder
	e.ObjStart()
	for k, v := range f.slots {
		e.FieldStart(k)
		e.Str(v)
	}
	e.ObjEnd()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, e.Bytes(), 0o600); err != nil {
		return errors.Wrap(err, "write state file")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "replace state file")
	}
	return nil
}
