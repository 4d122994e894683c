package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/affinity"
	"github.com/spellbridge/spellbridge/provider"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	misspelledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err         error
	reg         *affinity.Registry
	prov        *provider.Provider
	dict        *provider.Dict
	lang        string
	word        string
	verdict     spellbridge.Verdict
	suggestions []string
	selected    int
	input       textinput.Model
	state       modelState
}

type modelState int

const (
	stateInputWord modelState = iota
	stateShowVerdict
)

func newInteractiveModel(lang string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "word to check"
	ti.Prompt = "> "
	ti.Width = 40
	ti.Focus()

	return &interactiveModel{
		lang:  lang,
		input: ti,
		state: stateInputWord,
	}
}

type openedMsg struct {
	err  error
	reg  *affinity.Registry
	prov *provider.Provider
	dict *provider.Dict
}

type checkResultMsg struct {
	err         error
	word        string
	verdict     spellbridge.Verdict
	suggestions []string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.openDictionary
}

func (m *interactiveModel) openDictionary() tea.Msg {
	reg := affinity.NewRegistry()

	prov, err := provider.New(reg)
	if err != nil {
		return openedMsg{err: err}
	}

	dict, err := prov.RequestDict(m.lang)
	if err != nil {
		prov.Dispose()
		return openedMsg{err: err}
	}

	return openedMsg{reg: reg, prov: prov, dict: dict}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.prov != nil {
				if m.dict != nil {
					m.prov.DisposeDict(m.dict)
				}
				m.prov.Dispose()
			}
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.state == stateShowVerdict && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.state == stateShowVerdict && m.selected < len(m.suggestions)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateInputWord:
				word := strings.TrimSpace(m.input.Value())
				if word == "" {
					return m, nil
				}
				m.word = word
				return m, m.checkWord

			case stateShowVerdict:
				if m.verdict == spellbridge.Misspelled && len(m.suggestions) > 0 {
					// Accepting a suggestion teaches the dictionary.
					m.dict.StoreReplacement(m.word, m.suggestions[m.selected])
				}
				m.reset()
			}
			return m, nil

		case "ctrl+a":
			if m.state == stateShowVerdict && m.verdict == spellbridge.Misspelled {
				m.dict.AddToPersonal(m.word)
				m.reset()
			}
			return m, nil

		case "ctrl+g":
			if m.state == stateShowVerdict && m.verdict == spellbridge.Misspelled {
				m.dict.AddToExclude(m.word)
				m.reset()
			}
			return m, nil
		}

	case openedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reg = msg.reg
		m.prov = msg.prov
		m.dict = msg.dict

	case checkResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.verdict = msg.verdict
		m.suggestions = msg.suggestions
		m.selected = 0
		m.state = stateShowVerdict
	}

	if m.state == stateInputWord {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateInputWord
	m.word = ""
	m.suggestions = nil
	m.selected = 0
	m.err = nil
	m.input.SetValue("")
	m.input.Focus()
}

func (m *interactiveModel) checkWord() tea.Msg {
	verdict, err := m.dict.Check(m.word)
	if err != nil {
		return checkResultMsg{err: err}
	}

	var suggestions []string
	if verdict == spellbridge.Misspelled {
		list, err := m.dict.Suggest(m.word)
		if err != nil {
			return checkResultMsg{err: err}
		}
		if list != nil {
			suggestions = append(suggestions, list.Strings()...)
			m.prov.FreeStringList(list)
		}
	}

	return checkResultMsg{word: m.word, verdict: verdict, suggestions: suggestions}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}

	if m.dict == nil {
		return "Opening dictionary..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Spellbridge"))
	b.WriteString(" ")
	b.WriteString(m.dict.Tag())
	b.WriteString("\n\n")

	switch m.state {
	case stateInputWord:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter check • esc quit"))

	case stateShowVerdict:
		if m.verdict == spellbridge.Correct {
			b.WriteString(fmt.Sprintf("%s is %s\n", m.word, correctStyle.Render("correct")))
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("enter continue • esc quit"))
			break
		}

		b.WriteString(fmt.Sprintf("%s is %s\n", m.word, misspelledStyle.Render("misspelled")))
		if len(m.suggestions) == 0 {
			b.WriteString("\nNo suggestions.\n")
		} else {
			b.WriteString("\nSuggestions:\n")
			for i, s := range m.suggestions {
				cursor := "  "
				if i == m.selected {
					cursor = "> "
					b.WriteString(selectedStyle.Render(cursor + s))
				} else {
					b.WriteString(cursor + suggestionStyle.Render(s))
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter accept • ctrl+a add to personal • ctrl+g ignore • esc quit"))
	}

	return b.String()
}

func runInteractive(lang string) error {
	p := tea.NewProgram(newInteractiveModel(lang), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
