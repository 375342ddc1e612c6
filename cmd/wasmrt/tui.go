package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zboralski/wasmrt/internal/config"
	glog "github.com/zboralski/wasmrt/internal/log"
	"github.com/zboralski/wasmrt/internal/rt"
	"github.com/zboralski/wasmrt/internal/ui/colorize"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC800"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

const tuiBytesPerRow = 16

// tuiModel is a scrolling hex-dump view over one linear memory, for
// eyeballing the effect of a load/store/fill/copy while developing against
// the runtime core.
type tuiModel struct {
	mem    *rt.Memory
	in     *rt.Instance
	offset uint64
	rows   int
	err    error
}

func newTUIModel(in *rt.Instance, m *rt.Memory) tuiModel {
	return tuiModel{mem: m, in: in, rows: 16}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.offset = m.advance(m.offset, tuiBytesPerRow)
		case "k", "up":
			m.offset = m.retreat(m.offset, tuiBytesPerRow)
		case "pgdown", " ":
			m.offset = m.advance(m.offset, tuiBytesPerRow*uint64(m.rows))
		case "pgup":
			m.offset = m.retreat(m.offset, tuiBytesPerRow*uint64(m.rows))
		case "g":
			m.offset = 0
		}
	}
	return m, nil
}

func (m tuiModel) advance(off, n uint64) uint64 {
	size := m.mem.Size()
	if off+n >= size {
		if size == 0 {
			return 0
		}
		last := (size - 1) / tuiBytesPerRow * tuiBytesPerRow
		return last
	}
	return off + n
}

func (m tuiModel) retreat(off, n uint64) uint64 {
	if n > off {
		return 0
	}
	return off - n
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("wasmrt memory inspector — %d bytes, depth %d", m.mem.Size(), m.in.Depth())))
	b.WriteString("\n\n")

	end := m.offset + uint64(m.rows)*tuiBytesPerRow
	if end > m.mem.Size() {
		end = m.mem.Size()
	}
	for addr := m.offset; addr < end; addr += tuiBytesPerRow {
		rowEnd := addr + tuiBytesPerRow
		if rowEnd > m.mem.Size() {
			rowEnd = m.mem.Size()
		}
		var hex strings.Builder
		for a := addr; a < rowEnd; a++ {
			hex.WriteString(fmt.Sprintf("%02x ", rt.I32Load8U(m.mem, a)))
		}
		line := fmt.Sprintf("%08x  %s", addr, hex.String())
		b.WriteString(colorize.HexLine(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k scroll · pgup/pgdn page · g top · q quit"))
	return b.String()
}

func newTUICmd() *cobra.Command {
	var memSize uint64
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive memory inspector",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.DefaultConfig()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			m, err := rt.NewMemory(cfg, memSize, memSize)
			if err != nil {
				return err
			}
			defer m.Close()
			m.SetLogger(glog.L)

			in := rt.NewInstance(cfg, nil)
			in.SetLogger(glog.L)
			p := tea.NewProgram(newTUIModel(in, m))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().Uint64Var(&memSize, "mem-size", 65536, "memory size in bytes, one wasm page by default")
	return cmd
}
