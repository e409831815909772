package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/patric-chuzhbe/todolists/internal/models"
)

type screen int

const (
	screenLogin screen = iota
	screenLists
	screenDetail
)

// listEntry adapts models.List to bubbles/list.Item.
type listEntry struct {
	list models.List
}

func (e listEntry) Title() string       { return e.list.Name }
func (e listEntry) Description() string { return "" }
func (e listEntry) FilterValue() string { return e.list.Name }

// itemEntry adapts models.Item to bubbles/list.Item.
type itemEntry struct {
	item models.Item
}

func (e itemEntry) Title() string       { return e.item.Title }
func (e itemEntry) Description() string { return "" }
func (e itemEntry) FilterValue() string { return e.item.Title }

// Custom delegate to control how rows render (single line).
type rowDelegate struct {
	detailFor func(it list.Item) string
}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	var line string
	switch it := item.(type) {
	case listEntry:
		line = it.list.Name
	case itemEntry:
		line = it.item.Title
	}
	if d.detailFor != nil {
		if detail := d.detailFor(item); detail != "" {
			line += "  " + mutedStyle.Render(detail)
		}
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Messages produced by API commands.
type loginDoneMsg struct{ err error }
type listsLoadedMsg struct {
	lists []models.List
	err   error
}
type listChangedMsg struct{ err error }
type itemsChangedMsg struct {
	list *models.List
	err  error
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAddList
	inputRenameList
	inputAddItemTitle
	inputAddItemDetail
	inputEditItemTitle
	inputEditItemDetail
)

// Model is the Bubble Tea model for the whole client.
type Model struct {
	api     *API
	session *Session

	screen screen
	width  int
	height int

	// login screen
	username textinput.Model
	password textinput.Model
	focusPwd bool

	// dashboard
	lists   list.Model
	current *models.List
	items   list.Model

	// inline input bar shared by add/rename/edit
	mode        inputMode
	ti          textinput.Model
	inputErr    string
	draftTitle  string
	draftDetail string
	editItemID  string

	status  string
	lastErr string
}

// NewModel wires the TUI against an API client and a loaded session.
func NewModel(api *API, session *Session) Model {
	username := textinput.New()
	username.Prompt = "username > "
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Prompt = "password > "
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		api:      api,
		session:  session,
		screen:   screenLogin,
		username: username,
		password: password,
		ti:       ti,
		lists:    newRowList("Lists", nil),
		items:    newRowList("Items", itemDetail),
	}
	if session.LoggedIn() {
		m.screen = screenLists
	}
	return m
}

func itemDetail(it list.Item) string {
	if e, ok := it.(itemEntry); ok {
		return e.item.Detail
	}
	return ""
}

func newRowList(title string, detailFor func(list.Item) string) list.Model {
	l := list.New(nil, rowDelegate{detailFor: detailFor}, 0, 0)
	l.Title = title
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, delBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, delBind} }
	return l
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenLists {
		return m.loadLists()
	}
	return textinput.Blink
}

func (m Model) loadLists() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		lists, err := api.Lists()
		return listsLoadedMsg{lists: lists, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loginDoneMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		m.screen = screenLists
		return m, m.loadLists()

	case listsLoadedMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			if isUnauthenticated(msg.err) {
				return m.toLogin()
			}
			return m, nil
		}
		m.lastErr = ""
		rows := make([]list.Item, 0, len(msg.lists))
		for _, l := range msg.lists {
			rows = append(rows, listEntry{list: l})
		}
		m.lists.SetItems(rows)
		if m.current != nil {
			// refresh the open list from the fetched snapshot
			for i := range msg.lists {
				if msg.lists[i].ID == m.current.ID {
					m.setCurrent(&msg.lists[i])
					break
				}
			}
		}
		return m, nil

	case listChangedMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		m.status = "saved"
		return m, m.loadLists()

	case itemsChangedMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		m.status = "saved"
		if msg.list != nil {
			m.setCurrent(msg.list)
		}
		return m, m.loadLists()

	case tea.KeyMsg:
		m.status = ""
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenDetail:
		return m.updateDetail(msg)
	default:
		return m.updateLists(msg)
	}
}

func (m Model) toLogin() (tea.Model, tea.Cmd) {
	m.screen = screenLogin
	m.username.SetValue(m.session.Username)
	m.password.SetValue("")
	m.focusPwd = m.session.Username != ""
	if m.focusPwd {
		m.username.Blur()
		m.password.Focus()
	} else {
		m.username.Focus()
		m.password.Blur()
	}
	return m, textinput.Blink
}

func isUnauthenticated(err error) bool {
	return strings.Contains(err.Error(), models.ErrorKindUnauthenticated)
}

func (m *Model) setCurrent(l *models.List) {
	copied := *l
	m.current = &copied
	m.items.Title = copied.Name
	rows := make([]list.Item, 0, len(copied.Items))
	for _, it := range copied.Items {
		rows = append(rows, itemEntry{item: it})
	}
	m.items.SetItems(rows)
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "shift+tab":
			m.focusPwd = !m.focusPwd
			if m.focusPwd {
				m.username.Blur()
				m.password.Focus()
			} else {
				m.password.Blur()
				m.username.Focus()
			}
			return m, textinput.Blink
		case "enter":
			username := strings.TrimSpace(m.username.Value())
			password := m.password.Value()
			if username == "" || password == "" {
				m.lastErr = "username and password are required"
				return m, nil
			}
			api := m.api
			return m, func() tea.Msg {
				return loginDoneMsg{err: api.Login(username, password)}
			}
		case "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	if m.focusPwd {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.username, cmd = m.username.Update(msg)
	}
	return m, cmd
}

func (m Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode != inputNone {
		return m.updateInput(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.lists.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			return m, m.loadLists()
		case "a":
			return m.startInput(inputAddList, "New list name...", ""), textinput.Blink
		case "e":
			if e, ok := m.selectedList(); ok {
				mm := m.startInput(inputRenameList, "New name...", e.list.Name)
				return mm, textinput.Blink
			}
			return m, nil
		case "d":
			if e, ok := m.selectedList(); ok {
				api := m.api
				id := e.list.ID
				return m, func() tea.Msg {
					return listChangedMsg{err: api.DeleteList(id)}
				}
			}
			return m, nil
		case "enter":
			if e, ok := m.selectedList(); ok {
				m.setCurrent(&e.list)
				m.screen = screenDetail
			}
			return m, nil
		case "ctrl+l":
			if err := m.api.Logout(); err != nil {
				m.lastErr = err.Error()
				return m, nil
			}
			m.lists.SetItems(nil)
			m.current = nil
			return m.toLogin()
		}
	}
	var cmd tea.Cmd
	m.lists, cmd = m.lists.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode != inputNone {
		return m.updateInput(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.items.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			m.screen = screenLists
			m.current = nil
			return m, nil
		case "a":
			return m.startInput(inputAddItemTitle, "New item title...", ""), textinput.Blink
		case "e":
			if e, ok := m.selectedItem(); ok {
				mm := m.startInput(inputEditItemTitle, "New title...", e.item.Title)
				mm.editItemID = e.item.ID
				mm.draftDetail = e.item.Detail
				return mm, textinput.Blink
			}
			return m, nil
		case "d":
			if e, ok := m.selectedItem(); ok && m.current != nil {
				api := m.api
				listID, itemID := m.current.ID, e.item.ID
				return m, func() tea.Msg {
					return itemsChangedMsg{err: api.DeleteItem(listID, itemID)}
				}
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m Model) startInput(mode inputMode, placeholder, value string) Model {
	m.mode = mode
	m.inputErr = ""
	m.ti.Placeholder = placeholder
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Focus()
	return m
}

func (m Model) finishInput() Model {
	m.mode = inputNone
	m.ti.SetValue("")
	m.ti.Blur()
	return m
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m.finishInput(), nil
		case "enter":
			return m.submitInput()
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.ti.Value())
	if value == "" && m.mode != inputAddItemDetail && m.mode != inputEditItemDetail {
		m.inputErr = "value cannot be empty"
		return m, nil
	}
	api := m.api

	switch m.mode {
	case inputAddList:
		return m.finishInput(), func() tea.Msg {
			_, err := api.CreateList(value)
			return listChangedMsg{err: err}
		}
	case inputRenameList:
		if e, ok := m.selectedList(); ok {
			id := e.list.ID
			return m.finishInput(), func() tea.Msg {
				_, err := api.RenameList(id, value)
				return listChangedMsg{err: err}
			}
		}
	case inputAddItemTitle:
		// stash the title and ask for an optional detail
		m.draftTitle = value
		return m.startInput(inputAddItemDetail, "Detail (optional)...", ""), textinput.Blink
	case inputAddItemDetail:
		if m.current != nil {
			listID, title := m.current.ID, m.draftTitle
			m.draftTitle = ""
			return m.finishInput(), func() tea.Msg {
				_, err := api.AddItem(listID, title, value)
				return itemsChangedMsg{err: err}
			}
		}
	case inputEditItemTitle:
		// stash the new title and offer the current detail for editing
		m.draftTitle = value
		return m.startInput(inputEditItemDetail, "Detail (blank clears it)...", m.draftDetail), textinput.Blink
	case inputEditItemDetail:
		if m.current != nil {
			listID, itemID := m.current.ID, m.editItemID
			title := m.draftTitle
			m.draftTitle, m.draftDetail = "", ""
			return m.finishInput(), func() tea.Msg {
				_, err := api.UpdateItem(listID, itemID, &title, &value)
				return itemsChangedMsg{err: err}
			}
		}
	}
	return m.finishInput(), nil
}

func (m Model) selectedList() (listEntry, bool) {
	e, ok := m.lists.SelectedItem().(listEntry)
	return e, ok
}

func (m Model) selectedItem() (itemEntry, bool) {
	e, ok := m.items.SelectedItem().(itemEntry)
	return e, ok
}

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.viewLogin()
	case screenDetail:
		return m.viewList(m.items, "esc back  a add  e edit  d delete  q quit")
	default:
		return m.viewList(m.lists, "enter open  a add  e rename  d delete  r refresh  ctrl+l logout  q quit")
	}
}

func (m Model) viewLogin() string {
	lines := []string{
		titleStyle.Render("Todo Lists") + "  " + mutedStyle.Render("sign in"),
		"",
		m.username.View(),
		m.password.View(),
		"",
		helpStyle.Render("enter submit  tab switch field  esc quit"),
	}
	if m.lastErr != "" {
		lines = append(lines, "", errorStyle.Render(m.lastErr))
	}
	return panelLines(lines)
}

func (m Model) viewList(l list.Model, help string) string {
	w, h := m.width, m.height
	if w == 0 {
		w, h = 80, 24
	}
	listHeight := h - 5
	if m.mode != inputNone {
		listHeight -= 3
	}
	l.SetSize(w-4, listHeight)

	content := l.View()
	if m.mode != inputNone {
		bar := m.ti.View()
		if m.inputErr != "" {
			bar += "  " + errorStyle.Render(m.inputErr)
		}
		content += "\n" + panel(bar)
	}
	footer := helpStyle.Render(help)
	if m.session.LoggedIn() {
		footer = accentStyle.Render(m.session.Username) + "  " + footer
	}
	if m.status != "" {
		footer += "  " + successStyle.Render("✔ "+m.status)
	}
	if m.lastErr != "" {
		footer += "\n" + errorStyle.Render(m.lastErr)
	}
	return panel(content + "\n" + footer)
}

// Run starts the interactive program in the alternate screen.
func Run(api *API, session *Session) error {
	p := tea.NewProgram(NewModel(api, session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
