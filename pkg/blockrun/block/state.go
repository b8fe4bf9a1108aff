package block

import "strings"

// State is the mutable bookkeeping one executor owns: the block table, the
// authoritative outputs table, the fallback table, and the processing stack
// used for cycle detection.
//
// State is not safe for concurrent use. The engine is single-threaded by
// design; concurrent executors must each own an independent State or be
// serialized externally.
type State struct {
	blocks    map[string]*Block
	order     []string
	outputs   map[string]string
	fallbacks map[string]string
	stack     []string
	inStack   map[string]bool
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		blocks:    make(map[string]*Block),
		outputs:   make(map[string]string),
		fallbacks: make(map[string]string),
		inStack:   make(map[string]bool),
	}
}

// Register upserts a block under name and derives its typed fields.
// A `fallback` modifier is wired into the fallback table as a side effect.
func (s *State) Register(name string, b *Block) {
	b.Name = name
	b.Derive()
	if _, exists := s.blocks[name]; !exists {
		s.order = append(s.order, name)
	}
	s.blocks[name] = b
	if b.Mods.Fallback != "" && b.Mods.Fallback != name {
		s.fallbacks[name] = b.Mods.Fallback
	}
}

// Block returns the registered block for name.
func (s *State) Block(name string) (*Block, bool) {
	b, ok := s.blocks[name]
	return b, ok
}

// Names returns registered block names in registration order.
func (s *State) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// SetOutput stores a raw output value under key.
func (s *State) SetOutput(key, value string) {
	s.outputs[key] = value
}

// Output returns the output stored under key.
func (s *State) Output(key string) (string, bool) {
	v, ok := s.outputs[key]
	return v, ok
}

// Outputs returns a copy of the outputs table, including derived
// .results/_results/_error/_error_response keys.
func (s *State) Outputs() map[string]string {
	out := make(map[string]string, len(s.outputs))
	for k, v := range s.outputs {
		out[k] = v
	}
	return out
}

// RecordResult stores a successful result under the block's three
// derived keys: name, name.results, and name_results.
func (s *State) RecordResult(name, result string) {
	s.outputs[name] = result
	s.outputs[name+".results"] = result
	s.outputs[name+"_results"] = result
}

// RecordError stores a failure message under name_error.
func (s *State) RecordError(name, message string) {
	s.outputs[name+"_error"] = message
}

// SetFallback registers fb as the recovery block for name.
func (s *State) SetFallback(name, fb string) {
	if fb == "" || fb == name {
		return
	}
	s.fallbacks[name] = fb
}

// Fallback returns the recovery block registered for name.
func (s *State) Fallback(name string) (string, bool) {
	fb, ok := s.fallbacks[name]
	return fb, ok
}

// Push adds name to the processing stack. Returns false if name is already
// mid-execution, which means the caller found a cycle.
func (s *State) Push(name string) bool {
	if s.inStack[name] {
		return false
	}
	s.stack = append(s.stack, name)
	s.inStack[name] = true
	return true
}

// InProgress reports whether name is currently mid-execution.
func (s *State) InProgress(name string) bool {
	return s.inStack[name]
}

// Pop removes name from the processing stack. Tolerates out-of-order pops
// so error paths can pop unconditionally.
func (s *State) Pop(name string) {
	if !s.inStack[name] {
		return
	}
	delete(s.inStack, name)
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == name {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			return
		}
	}
}

// ProcessingStack returns a snapshot of the names currently mid-execution,
// outermost first.
func (s *State) ProcessingStack() []string {
	snap := make([]string, len(s.stack))
	copy(snap, s.stack)
	return snap
}

// Reset begins a new processing cycle: the block table, fallback table,
// processing stack, and all outputs are dropped except persisted
// `*_response` keys, which survive across document re-processing.
func (s *State) Reset() {
	s.blocks = make(map[string]*Block)
	s.order = nil
	s.fallbacks = make(map[string]string)
	s.stack = nil
	s.inStack = make(map[string]bool)
	for k := range s.outputs {
		if !strings.HasSuffix(k, "_response") {
			delete(s.outputs, k)
		}
	}
}
