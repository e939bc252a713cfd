package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/config"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/observability"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/render/circle"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// newTUICmd creates the tui command for interactive exploration.
func newTUICmd() *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore partitions and the recursion tree interactively",
		Long: `Explore set partitions and the S(n,k) recursion tree in the terminal.

The partitions tab steps through the enumeration one partition at a time;
the trace tab reveals the recursion tree node by node in DFS or BFS order.
Space toggles autoplay at the interval set in the config file.

Keys:

  ←/→    previous / next
  space  toggle autoplay
  r      reset to the start
  tab    switch between partitions and trace
  o      toggle reveal order (trace tab)
  q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			req, err := flags.build()
			if err != nil {
				return err
			}
			if req.N > cfg.Limits.MaxN {
				return fmt.Errorf("n=%d exceeds configured limit %d", req.N, cfg.Limits.MaxN)
			}

			c, err := partition.First(req)
			if err != nil {
				return err
			}
			observability.Enumerator().OnFirst(cmd.Context(), req.Mode.String(), req.N, req.K)
			total, err := partition.Count(req)
			if err != nil {
				return err
			}

			m, err := newExplorerModel(cfg, req, c, total)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// ExplorerModel - Interactive partition and trace explorer
// =============================================================================

const (
	tabPartitions = iota
	tabTrace
)

// tickMsg drives autoplay.
type tickMsg time.Time

// explorerModel is the bubbletea model for the tui command.
type explorerModel struct {
	req    partition.Request
	cursor *partition.Cursor
	total  int64

	tree     *stirling.Tree
	events   []stirling.Event
	pos      int
	order    stirling.Order
	treeNote string

	tab      int
	autoplay bool
	interval time.Duration
}

// newExplorerModel builds the initial model. The recursion tree is omitted
// when n exceeds the configured tree limit; the trace tab then shows a note
// instead.
func newExplorerModel(cfg config.Config, req partition.Request, c *partition.Cursor, total int64) (explorerModel, error) {
	m := explorerModel{
		req:      req,
		cursor:   c,
		total:    total,
		order:    stirling.OrderDFS,
		tab:      tabPartitions,
		interval: cfg.TUI.AutoplayInterval.Std(),
	}

	treeK := req.K
	if req.Mode != partition.ModeExactK {
		treeK = min(req.N, 2)
	}
	if req.N > cfg.Limits.MaxTreeN {
		m.treeNote = fmt.Sprintf("trace disabled: n=%d exceeds max_tree_n=%d", req.N, cfg.Limits.MaxTreeN)
		return m, nil
	}

	tree, err := stirling.Build(req.N, treeK)
	if err != nil {
		return explorerModel{}, err
	}
	tree.Resolve()
	m.tree = tree
	m.events = tree.Trace(m.order).Events()
	return m, nil
}

func (m explorerModel) Init() tea.Cmd {
	return nil
}

func (m explorerModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.autoplay {
			return m, nil
		}
		if !m.advance() {
			m.autoplay = false
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.advance()
		case "left", "h":
			m.retreat()
		case " ":
			m.autoplay = !m.autoplay
			if m.autoplay {
				return m, m.tick()
			}
		case "r":
			m.reset()
		case "tab":
			m.tab = (m.tab + 1) % 2
		case "o":
			if m.tab == tabTrace && m.tree != nil {
				if m.order == stirling.OrderDFS {
					m.order = stirling.OrderBFS
				} else {
					m.order = stirling.OrderDFS
				}
				m.events = m.tree.Trace(m.order).Events()
				m.pos = 0
			}
		}
	}
	return m, nil
}

// advance moves the active tab one step forward and reports whether it moved.
func (m *explorerModel) advance() bool {
	if m.tab == tabPartitions {
		return m.cursor.Next()
	}
	if m.pos < len(m.events) {
		m.pos++
		return true
	}
	return false
}

func (m *explorerModel) retreat() bool {
	if m.tab == tabPartitions {
		return m.cursor.Prev()
	}
	if m.pos > 0 {
		m.pos--
		return true
	}
	return false
}

func (m *explorerModel) reset() {
	if m.tab == tabPartitions {
		for m.cursor.Prev() {
		}
		return
	}
	m.pos = 0
}

func (m explorerModel) View() string {
	var b strings.Builder

	b.WriteString(m.tabBar())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  space autoplay  r reset  tab switch  o order  q quit"))
	b.WriteString("\n\n")

	if m.tab == tabPartitions {
		b.WriteString(m.partitionView())
	} else {
		b.WriteString(m.traceView())
	}

	if m.autoplay {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("▶ autoplay every %s", m.interval)))
	}
	return b.String()
}

func (m explorerModel) tabBar() string {
	labels := [2]string{"Partitions", "Trace"}
	parts := make([]string, 0, 2)
	for i, l := range labels {
		if i == m.tab {
			parts = append(parts, StyleTitle.Render("["+l+"]"))
		} else {
			parts = append(parts, StyleDim.Render(" "+l+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m explorerModel) partitionView() string {
	var b strings.Builder

	b.WriteString(StyleDim.Render(fmt.Sprintf("n=%d mode=%s", m.req.N, m.req.Mode)))
	b.WriteString("\n")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d", m.cursor.Index()+1)))
	b.WriteString(StyleDim.Render(fmt.Sprintf(" / %d", m.total)))
	b.WriteString("\n\n")

	blocks := m.cursor.Blocks()
	if len(blocks) == 0 {
		b.WriteString(StyleValue.Render("{ }"))
		b.WriteString("\n")
		return b.String()
	}
	for i, block := range blocks {
		elems := make([]string, len(block))
		for j, e := range block {
			elems[j] = fmt.Sprintf("%d", e)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(circle.BlockColor(i)))
		b.WriteString("  " + style.Render(fmt.Sprintf("{%s}", strings.Join(elems, ","))))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("rgs ") + StyleValue.Render(fmt.Sprintf("%v", []int(m.cursor.RGS()))))
	b.WriteString("\n")
	return b.String()
}

func (m explorerModel) traceView() string {
	if m.tree == nil {
		return StyleWarning.Render(m.treeNote) + "\n"
	}

	var b strings.Builder
	root := m.tree.Root()
	b.WriteString(StyleTitle.Render(fmt.Sprintf("S(%d,%d)", root.N, root.K)))
	if value, ok := m.tree.Value(); ok {
		b.WriteString(" = " + StyleNumber.Render(fmt.Sprintf("%d", value)))
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("   order=%s  step %d/%d", m.order, m.pos, len(m.events))))
	if m.pos == len(m.events) {
		b.WriteString("  " + StyleSuccess.Render("✓"))
	}
	b.WriteString("\n\n")

	for _, ev := range m.events[:m.pos] {
		node := m.tree.Node(ev.Index)
		indent := strings.Repeat("  ", m.depth(ev.Index))
		style := StyleRecursive
		if node.IsBase() {
			style = StyleBase
		}
		edge := ""
		if ev.Term == stirling.TermKTimes {
			edge = StyleDim.Render(fmt.Sprintf("×%d ", node.K))
		}
		b.WriteString(fmt.Sprintf("%s%s%s\n", indent, edge, style.Render(node.Label())))
	}
	return b.String()
}

// depth counts parent links up to the root.
func (m explorerModel) depth(idx int) int {
	d := 0
	for p := m.tree.Node(idx).Parent; p >= 0; p = m.tree.Node(p).Parent {
		d++
	}
	return d
}
