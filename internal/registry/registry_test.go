package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func macro(name, desc string) core.Macro {
	return core.Macro{
		Name:        name,
		Description: desc,
		Ports:       []core.MacroPort{core.NewPort("O", core.DirectionOutput)},
	}
}

func TestMacroRegistry_Register(t *testing.T) {
	r := NewMacroRegistry()

	r.Register("builtin", macro("FDCE", "flip-flop"))

	assert.Equal(t, 1, r.Count(), "expected count 1")

	got, err := r.Get("FDCE")
	require.NoError(t, err)
	assert.Equal(t, "builtin", got.Source)
	assert.Equal(t, "flip-flop", got.Macro.Description)
}

func TestMacroRegistry_LastWriteWins(t *testing.T) {
	r := NewMacroRegistry()

	r.Register("builtin", macro("FDCE", "builtin definition"))
	r.Register("run:1234", macro("FDCE", "extracted definition"))

	assert.Equal(t, 1, r.Count())
	got, err := r.Get("FDCE")
	require.NoError(t, err)
	assert.Equal(t, "run:1234", got.Source)
	assert.Equal(t, "extracted definition", got.Macro.Description)

	r.RegisterCollection("logic", core.MacroCollection{Macros: []core.Macro{
		macro("LUT1", "first"),
		macro("LUT1", "second"),
	}})
	got, err = r.Get("LUT1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Macro.Description)
}

func TestMacroRegistry_Get(t *testing.T) {
	r := NewMacroRegistry()
	r.Register("builtin", macro("FDCE", "flip-flop"))
	r.Register("builtin", macro("BUFGCE_1", "clock buffer"))
	r.Register("clocking", macro("MMCME2_ADV", "clock manager"))
	r.Register("7series.logic", macro("LUT6", "6-input lookup table"))

	tests := []struct {
		name      string
		lookup    string
		wantName  string
		wantFound bool
	}{
		{
			name:      "exact name",
			lookup:    "FDCE",
			wantName:  "FDCE",
			wantFound: true,
		},
		{
			name:      "case-insensitive name",
			lookup:    "bufgce_1",
			wantName:  "BUFGCE_1",
			wantFound: true,
		},
		{
			name:      "source-qualified name",
			lookup:    "clocking.mmcme2_adv",
			wantName:  "MMCME2_ADV",
			wantFound: true,
		},
		{
			name:      "source label with dots",
			lookup:    "7series.logic.LUT6",
			wantName:  "LUT6",
			wantFound: true,
		},
		{
			name:      "partial dotted source label",
			lookup:    "logic.LUT6",
			wantFound: false,
		},
		{
			name:      "wrong source qualifier",
			lookup:    "builtin.MMCME2_ADV",
			wantFound: false,
		},
		{
			name:      "unknown macro",
			lookup:    "RAMB36E1",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Get(tt.lookup)
			if !tt.wantFound {
				assert.ErrorIs(t, err, ErrNotFound)
				assert.Contains(t, err.Error(), tt.lookup)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Macro.Name)
		})
	}
}

func TestMacroRegistry_ExactBeatsFolded(t *testing.T) {
	r := NewMacroRegistry()
	r.Register("a", macro("Mux", "mixed case"))
	r.Register("b", macro("MUX", "upper case"))

	got, err := r.Get("Mux")
	require.NoError(t, err)
	assert.Equal(t, "mixed case", got.Macro.Description)

	// The folded index follows the last registration.
	got, err = r.Get("mux")
	require.NoError(t, err)
	assert.Equal(t, "upper case", got.Macro.Description)
}

func TestMacroRegistry_Resolve(t *testing.T) {
	r := NewMacroRegistry()
	r.Register("builtin", macro("FDCE", "flip-flop"))
	r.Register("builtin", macro("MUXF8_D", "mux"))

	found, missing := r.Resolve([]string{"fdce", "XYZ", "FDCE", "MUXF8_D"})

	require.Len(t, found, 2)
	assert.Equal(t, "FDCE", found[0].Macro.Name)
	assert.Equal(t, "MUXF8_D", found[1].Macro.Name)
	assert.Equal(t, []string{"XYZ"}, missing)
}

func TestMacroRegistry_List(t *testing.T) {
	r := NewMacroRegistry()
	assert.Empty(t, r.List())

	r.Register("builtin", macro("MUXF8_D", "mux"))
	r.Register("builtin", macro("BUFGCE_1", "buffer"))
	r.Register("builtin", macro("FDCE", "flip-flop"))

	var names []string
	for _, e := range r.List() {
		names = append(names, e.Macro.Name)
	}
	assert.Equal(t, []string{"BUFGCE_1", "FDCE", "MUXF8_D"}, names)
}

func TestMacroRegistry_Concurrent(t *testing.T) {
	r := NewMacroRegistry()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("M%02d", i)
			r.Register("worker", macro(name, name))
			_, err := r.Get(name)
			assert.NoError(t, err)
			_ = r.List()
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, r.Count())
}
