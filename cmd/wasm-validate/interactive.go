package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	wasmvalidate "github.com/wippyai/wasm-validate"
	"github.com/wippyai/wasm-validate/conform"
	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/model"
)

type interactiveModel struct {
	err      error
	v        *wasmvalidate.Validator
	mod      *model.Model
	sources  map[string]string
	filename string
	witFile  string
	coreFile string
	report   conform.Report
	visible  []int // indices into report.Results matching the filter
	filter   textinput.Model
	selected int
	loaded   bool
	state    modelState
}

type modelState int

const (
	stateList modelState = iota
	stateFilter
	stateDetail
)

func newInteractiveModel(v *wasmvalidate.Validator, filename, witFile, coreFile string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Prompt = "/ "
	ti.Width = 40

	return &interactiveModel{
		v:        v,
		filename: filename,
		witFile:  witFile,
		coreFile: coreFile,
		filter:   ti,
		state:    stateList,
	}
}

type loadedMsg struct {
	err     error
	mod     *model.Model
	sources map[string]string
	report  conform.Report
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: errors.Load("read module", err)}
	}

	in, err := loadInterface(m.witFile, m.coreFile)
	if err != nil {
		return loadedMsg{err: err}
	}

	mod, report, err := m.v.Inspect(in, data)
	if err != nil {
		return loadedMsg{err: err}
	}

	sources := make(map[string]string, in.Len())
	for _, d := range in.Decls() {
		sources[d.Name] = d.Source
	}
	return loadedMsg{mod: mod, report: report, sources: sources}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateList
			}

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
			} else if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.applyFilter()
			}
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mod = msg.mod
		m.report = msg.report
		m.sources = msg.sources
		m.applyFilter()
	}

	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.filter.Blur()
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, res := range m.report.Results {
		if q == "" || strings.Contains(strings.ToLower(res.Name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if !m.loaded {
		return "Validating module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("WASM Validate"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateList, stateFilter:
		b.WriteString(m.summary())
		b.WriteString("\n\n")
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		for i, idx := range m.visible {
			line := formatResult(m.report.Results[idx])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("  no matching declarations"))
			b.WriteString("\n")
		}
		if len(m.report.Undeclared) > 0 {
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("undeclared exports: " + strings.Join(m.report.Undeclared, ", ")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter/esc done"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • q quit"))
		}

	case stateDetail:
		b.WriteString(m.detail(m.report.Results[m.visible[m.selected]]))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) summary() string {
	var ok int
	for _, res := range m.report.Results {
		if res.Status == conform.StatusOK {
			ok++
		}
	}
	s := fmt.Sprintf("%d/%d declarations conform", ok, len(m.report.Results))
	if ok == len(m.report.Results) {
		return okStyle.Render(s)
	}
	return warnStyle.Render(s)
}

func (m *interactiveModel) detail(res conform.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n", funcStyle.Render(res.Name), statusStyle(res.Status).Render(string(res.Status)))
	if src := m.sources[res.Name]; src != "" {
		fmt.Fprintf(&b, "declared  %s\n", src)
	}
	fmt.Fprintf(&b, "expected  %s\n", typeStyle.Render(res.Expected.String()))

	switch res.Status {
	case conform.StatusOK, conform.StatusMismatch:
		fmt.Fprintf(&b, "actual    %s\n", typeStyle.Render(res.Actual.String()))
		fmt.Fprintf(&b, "function  %d", res.Index)
		if f, err := m.mod.Func(res.Index); err == nil {
			fmt.Fprintf(&b, " (type %d)", f.Type)
		}
		b.WriteString("\n")
		if res.Origin != nil {
			fmt.Fprintf(&b, "origin    import %s\n", res.Origin)
		}
	case conform.StatusInvalid:
		fmt.Fprintf(&b, "function  %d\n", res.Index)
	}

	if res.Err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(res.Err.Error()))
	}
	return b.String()
}

func runInteractive(v *wasmvalidate.Validator, filename, witFile, coreFile string) error {
	p := tea.NewProgram(newInteractiveModel(v, filename, witFile, coreFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
