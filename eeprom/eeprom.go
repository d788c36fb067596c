//
// Package eeprom holds the non-volatile variable stores behind STORE
// and RECALL.  A store keeps one record per (slot, kind) pair; kind is
// 0 for a number, 1 for a string and 2 for an array.  Reading a record
// that was never written gives an empty slice and no error
//

package eeprom

import (
	"errors"
	"fmt"
	"sync"
)

const (
	numSlots = 26
	numKinds = 3
)

var ErrBadKey = errors.New("bad slot or kind")

func checkKey(slot, kind uint8) error {

	if slot >= numSlots || kind >= numKinds {
		return fmt.Errorf("slot %d kind %d: %w", slot, kind, ErrBadKey)
	}

	return nil
}

// Record name used by the file and SQL stores, e.g. "a$" for slot 0 kind 1

func keyName(slot, kind uint8) string {

	return string(rune('a'+slot)) + [numKinds]string{"", "$", "@"}[kind]
}

type Memory struct {
	mu      sync.Mutex
	records map[[2]uint8][]byte
}

func NewMemory() *Memory {

	return &Memory{records: make(map[[2]uint8][]byte)}
}

func (m *Memory) Init() error {

	return nil
}

func (m *Memory) WriteVariable(slot, kind uint8, data []byte) error {

	if err := checkKey(slot, kind); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[[2]uint8{slot, kind}] = append([]byte(nil), data...)

	return nil
}

func (m *Memory) ReadVariable(slot, kind uint8) ([]byte, error) {

	if err := checkKey(slot, kind); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.records[[2]uint8{slot, kind}]...), nil
}
