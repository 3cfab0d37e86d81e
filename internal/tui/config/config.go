package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/intake/internal/config"
	"github.com/Iron-Ham/intake/internal/tui/styles"
)

// ConfigItem represents a single configuration item
type ConfigItem struct {
	Key         string
	Label       string
	Description string
	Type        string   // "string", "int", "select"
	Options     []string // For select type
}

// Category represents a group of config items
type Category struct {
	Name  string
	Items []ConfigItem
}

// Model is the Bubbletea model for the interactive config editor. The API
// token is read from the environment and is not editable here.
type Model struct {
	configFile     string
	categories     []Category
	categoryIndex  int
	itemIndex      int
	width          int
	editing        bool
	textInput      textinput.Model
	selectIndex    int
	errorMsg       string
	infoMsg        string
	quitting       bool
	configModified bool
}

// New creates a config editor that writes to configFile. An empty path means
// the default config file.
func New(configFile string) Model {
	if configFile == "" {
		configFile = config.ConfigFile()
	}

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		configFile: configFile,
		textInput:  ti,
		categories: []Category{
			{
				Name: "API",
				Items: []ConfigItem{
					{
						Key:         "api.base_url",
						Label:       "Base URL",
						Description: "Scheme and host of the nutrition API",
						Type:        "string",
					},
					{
						Key:         "api.timeout_seconds",
						Label:       "Timeout (s)",
						Description: "HTTP timeout for each remote call",
						Type:        "int",
					},
				},
			},
			{
				Name: "Ledger",
				Items: []ConfigItem{
					{
						Key:         "ledger.scaling",
						Label:       "Scaling",
						Description: "Whether meal profiles are per 100 g or per their own reference weight",
						Type:        "select",
						Options:     config.ValidScalings(),
					},
					{
						Key:         "ledger.calendar_days",
						Label:       "Calendar Days",
						Description: "How many days, ending today, the date picker offers",
						Type:        "int",
					},
				},
			},
			{
				Name: "TUI",
				Items: []ConfigItem{
					{
						Key:         "tui.theme",
						Label:       "Theme",
						Description: "Color theme for the workspace",
						Type:        "select",
						Options:     config.ValidThemes(),
					},
				},
			},
			{
				Name: "Logging",
				Items: []ConfigItem{
					{
						Key:         "logging.level",
						Label:       "Level",
						Description: "Minimum level written to the log",
						Type:        "select",
						Options:     config.ValidLogLevels(),
					},
					{
						Key:         "logging.dir",
						Label:       "Directory",
						Description: "Where intake.log is written (empty = stderr for commands, config dir for the TUI)",
						Type:        "string",
					},
				},
			},
		},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.errorMsg = ""
		m.infoMsg = ""

		if m.editing {
			return m.handleEditingKeypress(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.itemIndex--
			if m.itemIndex < 0 {
				m.categoryIndex = (m.categoryIndex - 1 + len(m.categories)) % len(m.categories)
				m.itemIndex = len(m.categories[m.categoryIndex].Items) - 1
			}

		case "down", "j":
			m.itemIndex++
			if m.itemIndex >= len(m.categories[m.categoryIndex].Items) {
				m.categoryIndex = (m.categoryIndex + 1) % len(m.categories)
				m.itemIndex = 0
			}

		case "tab":
			m.categoryIndex = (m.categoryIndex + 1) % len(m.categories)
			m.itemIndex = 0

		case "shift+tab":
			m.categoryIndex = (m.categoryIndex - 1 + len(m.categories)) % len(m.categories)
			m.itemIndex = 0

		case "enter", " ":
			item := m.currentItem()
			m.editing = true
			if item.Type == "select" {
				m.selectIndex = m.currentSelectIndex()
				break
			}
			m.textInput.SetValue(displayValue(item))
			m.textInput.CursorEnd()
			m.textInput.Focus()

		case "r":
			m.resetCurrentToDefault()
		}
	}

	return m, nil
}

func (m Model) handleEditingKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := m.currentItem()

	switch msg.String() {
	case "esc":
		m.stopEditing()
		return m, nil

	case "enter":
		value := m.textInput.Value()
		if item.Type == "select" {
			value = item.Options[m.selectIndex]
		}
		if err := m.apply(item, value); err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.stopEditing()
		return m, nil

	case "up", "k":
		if item.Type == "select" {
			m.selectIndex = (m.selectIndex - 1 + len(item.Options)) % len(item.Options)
			return m, nil
		}

	case "down", "j":
		if item.Type == "select" {
			m.selectIndex = (m.selectIndex + 1) % len(item.Options)
			return m, nil
		}
	}

	if item.Type == "select" {
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := styles.Header
	if m.width > 4 {
		header = header.Width(m.width - 4)
	}
	b.WriteString(header.Render("Intake Configuration"))
	b.WriteString("\n\n")

	configPath := m.configFile
	if _, err := os.Stat(configPath); err != nil {
		configPath += " (not created)"
	}
	b.WriteString(styles.Muted.Render("Config file: " + configPath))
	b.WriteString("\n\n")

	for ci, cat := range m.categories {
		catStyle := styles.Muted.Bold(true)
		if ci == m.categoryIndex {
			catStyle = styles.Primary.Bold(true)
		}
		b.WriteString(catStyle.Render(fmt.Sprintf("[ %s ]", cat.Name)))
		b.WriteString("\n")

		for ii, item := range cat.Items {
			b.WriteString(renderItem(item, ci == m.categoryIndex && ii == m.itemIndex))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString(m.renderEditOverlay())
	} else {
		b.WriteString(styles.Muted.Render(m.currentItem().Description))
	}
	b.WriteString("\n")

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.errorMsg))
	}
	if m.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.SuccessMsg.Render(m.infoMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func renderItem(item ConfigItem, selected bool) string {
	label := fmt.Sprintf("%-20s", item.Label)
	value := displayValue(item)
	if value == "" {
		value = "(unset)"
	}

	if selected {
		return fmt.Sprintf("  %s %s  %s",
			styles.Secondary.Render(">"),
			styles.Text.Bold(true).Render(label),
			styles.Primary.Render(value),
		)
	}
	return fmt.Sprintf("    %s  %s", styles.Muted.Render(label), styles.Text.Render(value))
}

func (m Model) renderEditOverlay() string {
	item := m.currentItem()

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.PrimaryColor).
		Padding(1, 2).
		Width(50)

	var content strings.Builder
	if item.Type == "select" {
		content.WriteString(fmt.Sprintf("Select %s:\n\n", item.Label))
		for i, opt := range item.Options {
			if i == m.selectIndex {
				content.WriteString(styles.DropdownItemSelected.Render(" > " + opt + " "))
			} else {
				content.WriteString(styles.DropdownItem.Render("   " + opt + " "))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n" + styles.Muted.Render("j/k to select, enter to confirm, esc to cancel"))
	} else {
		content.WriteString(fmt.Sprintf("Edit %s:\n\n", item.Label))
		content.WriteString(m.textInput.View())
		content.WriteString("\n\n" + styles.Muted.Render("enter to save, esc to cancel"))
	}

	return "\n" + borderStyle.Render(content.String())
}

func (m Model) renderHelp() string {
	helpStyle := styles.HelpBar
	keyStyle := styles.HelpKey

	if m.editing {
		return helpStyle.Render(
			keyStyle.Render("enter") + " save  " +
				keyStyle.Render("esc") + " cancel",
		)
	}

	return helpStyle.Render(
		keyStyle.Render("j/k") + " navigate  " +
			keyStyle.Render("tab") + " next section  " +
			keyStyle.Render("enter") + " edit  " +
			keyStyle.Render("r") + " reset  " +
			keyStyle.Render("q") + " quit",
	)
}

func (m Model) currentItem() ConfigItem {
	return m.categories[m.categoryIndex].Items[m.itemIndex]
}

func (m Model) currentSelectIndex() int {
	item := m.currentItem()
	if i := slices.Index(item.Options, viper.GetString(item.Key)); i >= 0 {
		return i
	}
	return 0
}

func displayValue(item ConfigItem) string {
	if item.Type == "int" {
		return strconv.Itoa(viper.GetInt(item.Key))
	}
	return viper.GetString(item.Key)
}

// apply parses value for item, checks the resulting configuration and
// saves it. The previous value is restored when the result is invalid.
func (m *Model) apply(item ConfigItem, value string) error {
	var parsed any
	switch item.Type {
	case "int":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("expected integer value")
		}
		parsed = n
	case "select":
		if !slices.Contains(item.Options, value) {
			return fmt.Errorf("invalid option: %s", value)
		}
		parsed = value
	default:
		parsed = strings.TrimSpace(value)
	}

	previous := viper.Get(item.Key)
	viper.Set(item.Key, parsed)
	if err := validateKey(item.Key); err != nil {
		viper.Set(item.Key, previous)
		return err
	}
	return m.saveConfig()
}

// validateKey reports the first validation failure for key in the current
// viper state.
func validateKey(key string) error {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return err
	}
	for _, verr := range cfg.Validate() {
		if verr.Field == key {
			return fmt.Errorf("%s", verr.Message)
		}
	}
	return nil
}

func (m *Model) saveConfig() error {
	if err := config.Write(m.configFile); err != nil {
		return err
	}
	m.infoMsg = "Saved!"
	m.configModified = true
	return nil
}

func (m *Model) resetCurrentToDefault() {
	item := m.currentItem()
	defaults := config.Default()

	defaultValues := map[string]any{
		"api.base_url":         defaults.API.BaseURL,
		"api.timeout_seconds":  defaults.API.TimeoutSeconds,
		"ledger.scaling":       defaults.Ledger.Scaling,
		"ledger.calendar_days": defaults.Ledger.CalendarDays,
		"tui.theme":            defaults.TUI.Theme,
		"logging.level":        defaults.Logging.Level,
		"logging.dir":          defaults.Logging.Dir,
	}

	defaultVal, ok := defaultValues[item.Key]
	if !ok {
		return
	}
	viper.Set(item.Key, defaultVal)
	if err := m.saveConfig(); err != nil {
		m.errorMsg = err.Error()
		return
	}
	m.infoMsg = fmt.Sprintf("Reset %s to default", item.Label)
}

// Modified reports whether any change was written.
func (m Model) Modified() bool {
	return m.configModified
}

// Run starts the interactive config editor.
func Run(configFile string) error {
	p := tea.NewProgram(New(configFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
