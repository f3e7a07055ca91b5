package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StateFileName is the wallet metadata file inside the data directory.
const StateFileName = "wallet.json"

// Operator is a named operator key. Each operator owns one BIP44 account.
type Operator struct {
	Name    string `json:"name"`
	Index   uint32 `json:"index"`
	Deleted bool   `json:"deleted"` // soft delete; the index is never reused
}

// State holds persisted wallet metadata.
type State struct {
	Operators []Operator `json:"operators"`
	NextIndex uint32     `json:"next_index"`
	Default   string     `json:"default"`
}

// NewState creates an empty State.
func NewState() *State {
	return &State{Operators: []Operator{}}
}

// Validate checks a deserialized State for duplicate or out-of-range indices.
func (s *State) Validate() error {
	seen := make(map[uint32]string)
	var next uint32
	for _, op := range s.Operators {
		if op.Index > MaxOperatorIndex {
			return fmt.Errorf("operator %q: %w", op.Name, ErrIndexOutOfRange)
		}
		if prev, ok := seen[op.Index]; ok {
			return fmt.Errorf("duplicate operator index %d: %q and %q", op.Index, prev, op.Name)
		}
		seen[op.Index] = op.Name
		if op.Index >= next {
			next = op.Index + 1
		}
	}
	if s.NextIndex < next {
		return fmt.Errorf("next index %d is below max operator index + 1 (%d)", s.NextIndex, next)
	}
	return nil
}

// CreateOperator allocates the next account index to name. The first
// operator becomes the default.
func (s *State) CreateOperator(name string) (*Operator, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrOperatorNotFound)
	}
	if s.NextIndex > MaxOperatorIndex {
		return nil, ErrIndexOutOfRange
	}
	if _, err := s.GetOperator(name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperatorExists, name)
	}
	op := Operator{Name: name, Index: s.NextIndex}
	s.Operators = append(s.Operators, op)
	s.NextIndex++
	if s.Default == "" {
		s.Default = name
	}
	return &op, nil
}

// GetOperator returns the active operator called name. An empty name selects
// the default operator.
func (s *State) GetOperator(name string) (*Operator, error) {
	if name == "" {
		name = s.Default
	}
	for i := range s.Operators {
		if s.Operators[i].Name == name && !s.Operators[i].Deleted {
			return &s.Operators[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrOperatorNotFound, name)
}

// ListOperators returns all active operators.
func (s *State) ListOperators() []Operator {
	var active []Operator
	for _, op := range s.Operators {
		if !op.Deleted {
			active = append(active, op)
		}
	}
	return active
}

// DeleteOperator soft-deletes the operator called name.
func (s *State) DeleteOperator(name string) error {
	op, err := s.GetOperator(name)
	if err != nil {
		return err
	}
	op.Deleted = true
	if s.Default == name {
		s.Default = ""
	}
	return nil
}

// LoadState reads dataDir/wallet.json. A missing file yields an empty State.
func LoadState(dataDir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, StateFileName))
	if errors.Is(err, os.ErrNotExist) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("wallet: read state: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("wallet: parse state: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("wallet: invalid state: %w", err)
	}
	return &s, nil
}

// SaveState writes s to dataDir/wallet.json.
func SaveState(dataDir string, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: encode state: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("wallet: create data dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, StateFileName), data, 0600); err != nil {
		return fmt.Errorf("wallet: write state: %w", err)
	}
	return nil
}
