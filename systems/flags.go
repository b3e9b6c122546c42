package systems

import (
	"encoding/json"
	"log/slog"

	"github.com/nathoo/scenecore/engine"
)

// FlagsName is the flag system's registration name.
const FlagsName = "flags"

// Flags is the world-state scratchpad: named booleans and counters that
// scripts set and gate on.
type Flags struct {
	log      *slog.Logger
	flags    map[string]bool
	counters map[string]int
}

// NewFlags creates the flag system. A nil logger falls back to slog.Default.
func NewFlags(log *slog.Logger) *Flags {
	if log == nil {
		log = slog.Default()
	}
	return &Flags{
		log:      log,
		flags:    map[string]bool{},
		counters: map[string]int{},
	}
}

func (f *Flags) Name() string { return FlagsName }

func (f *Flags) Dependencies() []string { return nil }

func (f *Flags) Setup(*engine.Context) error { return nil }

// Set assigns a boolean flag.
func (f *Flags) Set(flag string, value bool) {
	f.flags[flag] = value
	f.log.Debug("flag set", "flag", flag, "value", value)
}

// IsSet returns a flag's value; unset flags are false.
func (f *Flags) IsSet(flag string) bool { return f.flags[flag] }

// Add adjusts a counter by delta and returns the new value.
func (f *Flags) Add(counter string, delta int) int {
	f.counters[counter] += delta
	return f.counters[counter]
}

// Counter returns a counter's value; unset counters are zero.
func (f *Flags) Counter(counter string) int { return f.counters[counter] }

type flagsSave struct {
	Flags    map[string]bool `json:"flags"`
	Counters map[string]int  `json:"counters"`
}

// SaveState implements engine.Saver.
func (f *Flags) SaveState() any {
	return flagsSave{Flags: f.flags, Counters: f.counters}
}

// RestoreState implements engine.Saver.
func (f *Flags) RestoreState(data []byte) error {
	var st flagsSave
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Flags == nil {
		st.Flags = map[string]bool{}
	}
	if st.Counters == nil {
		st.Counters = map[string]int{}
	}
	f.flags = st.Flags
	f.counters = st.Counters
	return nil
}
