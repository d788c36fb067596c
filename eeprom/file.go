package eeprom

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

//
// File keeps the records in a YAML document, one hex string per
// variable name.  The whole file is rewritten on every write, which
// is fine for 78 records of at most a few hundred bytes
//

type File struct {
	mu      sync.Mutex
	path    string
	records map[string]string
}

type fileDisk struct {
	Variables map[string]string `yaml:"variables"`
}

func NewFile(path string) *File {

	return &File{path: path}
}

//
// Init loads the file.  A missing file is an empty store
//

func (f *File) Init() error {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.records = make(map[string]string)

	abs, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("eeprom: resolve %s: %w", f.path, err)
	}
	f.path = abs

	file, err := os.Open(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer file.Close()

	var raw fileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("eeprom: parse %s: %w", abs, err)
	}

	for k, v := range raw.Variables {
		f.records[k] = v
	}

	return nil
}

func (f *File) WriteVariable(slot, kind uint8, data []byte) error {

	if err := checkKey(slot, kind); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.records == nil {
		return errors.New("eeprom: store not initialised")
	}

	f.records[keyName(slot, kind)] = hex.EncodeToString(data)

	return f.flush()
}

func (f *File) ReadVariable(slot, kind uint8) ([]byte, error) {

	if err := checkKey(slot, kind); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.records[keyName(slot, kind)]
	if !ok {
		return nil, nil
	}

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("eeprom: record %s: %w", keyName(slot, kind), err)
	}

	return data, nil
}

func (f *File) flush() error {

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fileDisk{Variables: f.records}); err != nil {
		return fmt.Errorf("eeprom: marshal %s: %w", f.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("eeprom: encoder close: %w", err)
	}

	if err := os.WriteFile(f.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("eeprom: write %s: %w", f.path, err)
	}

	return nil
}
