package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/export"
	"github.com/sadopc/dayplan/internal/logging"
	"github.com/sadopc/dayplan/internal/tasks"
)

type tasksForm int

const (
	formNone tasksForm = iota
	formNewList
	formAddTask
	formExport
)

var taskColumns = []table.Column{
	{Title: "#", Width: 3},
	{Title: "Task", Width: 32},
	{Title: "Priority", Width: 8},
	{Title: "Added", Width: 19},
	{Title: "Completed", Width: 9},
}

type tasksModel struct {
	store      *tasks.Store
	log        *logging.Logger
	now        func() time.Time
	listFormat string
	exportDir  string
	width      int
	height     int

	lists    []string
	selected int          // index into lists
	items    []tasks.Task // fresh copy of the selected list
	table    table.Model

	formActive bool
	form       *huh.Form
	formType   tasksForm

	// Form field pointers (survive value copies)
	formKey      *string
	formName     *string
	formPriority *tasks.Priority
	formFormat   *export.Format
}

func newTasksModel(s *tasks.Store, log *logging.Logger, now func() time.Time, listFormat, exportDir string) tasksModel {
	listKey, name := "", ""
	priority := tasks.PriorityLow
	format := export.FormatCSV

	t := table.New(
		table.WithColumns(taskColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(table.Styles{
		Header:   tableHeaderStyle,
		Cell:     tableCellStyle,
		Selected: tableSelectedStyle,
	})

	m := tasksModel{
		store:        s,
		log:          log,
		now:          now,
		listFormat:   listFormat,
		exportDir:    exportDir,
		table:        t,
		formKey:      &listKey,
		formName:     &name,
		formPriority: &priority,
		formFormat:   &format,
	}
	m.reload()
	return m
}

func (p *tasksModel) setSize(w, h int) {
	p.width = w
	p.height = h
	// panel border/padding, title, list selector, summary, hint line
	p.table.SetHeight(max(3, h-12))
	p.table.SetWidth(max(20, w-8))
}

// currentList returns the key of the selected list, or "" when there are none.
func (p tasksModel) currentList() string {
	if p.selected < 0 || p.selected >= len(p.lists) {
		return ""
	}
	return p.lists[p.selected]
}

// reload re-reads lists and the selected list from the store. It runs after
// every mutation so the table never shows stale rows.
func (p *tasksModel) reload() {
	p.lists = p.store.Lists()
	if p.selected >= len(p.lists) {
		p.selected = len(p.lists) - 1
	}
	if p.selected < 0 && len(p.lists) > 0 {
		p.selected = 0
	}

	p.items = nil
	if listKey := p.currentList(); listKey != "" {
		items, err := p.store.ListTasks(listKey)
		if err != nil {
			p.log.Warn("reload list failed", "list", listKey, "error", err)
		}
		p.items = items
	}

	rows := make([]table.Row, len(p.items))
	for i, t := range p.items {
		done := ""
		if t.Completed {
			done = "✓"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			t.Name,
			t.Priority.String(),
			t.AddedAt.Local().Format(tasks.AddedLayout),
			done,
		}
	}
	cursor := p.table.Cursor()
	p.table.SetRows(rows)
	p.table.SetCursor(max(0, min(cursor, len(rows)-1)))
}

func (p *tasksModel) selectList(key string) {
	if i := slices.Index(p.lists, key); i >= 0 {
		p.selected = i
	}
}

// selectedTask returns the task under the table cursor.
func (p tasksModel) selectedTask() (tasks.Task, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.items) {
		return tasks.Task{}, false
	}
	return p.items[i], true
}

func (p tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(km, keys.NewList):
		return p.showNewListForm()
	case key.Matches(km, keys.AddTask):
		if !p.store.HasList(p.currentList()) {
			return p, notifyError(tasks.ErrUnknownList)
		}
		return p.showAddTaskForm()
	case key.Matches(km, keys.Export):
		if !p.store.HasList(p.currentList()) {
			return p, notifyError(tasks.ErrUnknownList)
		}
		return p.showExportForm()
	case key.Matches(km, keys.Complete):
		return p.completeSelected()
	case key.Matches(km, keys.Delete):
		return p.deleteSelected()
	case key.Matches(km, keys.Left):
		if p.selected > 0 {
			p.selected--
			p.table.SetCursor(0)
			p.reload()
		}
	case key.Matches(km, keys.Right):
		if p.selected < len(p.lists)-1 {
			p.selected++
			p.table.SetCursor(0)
			p.reload()
		}
	case key.Matches(km, keys.Up), key.Matches(km, keys.Down):
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(km)
		return p, cmd
	}
	return p, nil
}

func (p tasksModel) showNewListForm() (tasksModel, tea.Cmd) {
	*p.formKey = p.now().Format(p.listFormat)
	p.formType = formNewList

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date").Description("Name of the new task list").Value(p.formKey),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tasksModel) showAddTaskForm() (tasksModel, tea.Cmd) {
	*p.formName = ""
	*p.formPriority = tasks.PriorityLow
	p.formType = formAddTask

	options := make([]huh.Option[tasks.Priority], 0, 3)
	for _, pr := range tasks.Priorities() {
		options = append(options, huh.NewOption(pr.String(), pr))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(p.formName),
			huh.NewSelect[tasks.Priority]().Title("Priority").Options(options...).Value(p.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tasksModel) showExportForm() (tasksModel, tea.Cmd) {
	*p.formFormat = export.FormatCSV
	p.formType = formExport

	var options []huh.Option[export.Format]
	for _, f := range export.Formats() {
		options = append(options, huh.NewOption(strings.ToUpper(string(f)), f))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Format]().Title("Export Format").Options(options...).Value(p.formFormat),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		p.formActive = false
		p.form = nil
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.formActive = false
		p.form = nil
		return p.submitForm()
	case huh.StateAborted:
		p.formActive = false
		p.form = nil
		return p, nil
	}
	return p, cmd
}

func (p tasksModel) submitForm() (tasksModel, tea.Cmd) {
	switch p.formType {
	case formNewList:
		return p.createList(*p.formKey)
	case formAddTask:
		return p.addTask(*p.formName, *p.formPriority)
	case formExport:
		return p, p.exportList(*p.formFormat)
	}
	return p, nil
}

func (p tasksModel) createList(listKey string) (tasksModel, tea.Cmd) {
	created, err := p.store.CreateList(listKey)
	if err != nil {
		p.log.Warn("create list rejected", "list", listKey, "error", err)
		return p, notifyError(err)
	}
	listKey = tasks.NormalizeKey(listKey)
	p.lists = p.store.Lists()
	p.selectList(listKey)
	p.table.SetCursor(0)
	p.reload()

	if !created {
		return p, notify("List '%s' already exists", listKey)
	}
	p.log.Info("list created", "list", listKey)
	return p, notify("List '%s' created!", listKey)
}

func (p tasksModel) addTask(name string, priority tasks.Priority) (tasksModel, tea.Cmd) {
	list := p.currentList()
	t, err := p.store.AddTask(list, name, priority)
	if err != nil {
		p.log.Warn("add task rejected", "list", list, "error", err)
		return p, notifyError(err)
	}
	p.reload()
	p.table.SetCursor(len(p.items) - 1)

	p.log.Info("task added", "list", list, "task_id", t.ID, "priority", t.Priority.String())
	return p, notify("Task '%s' added to list '%s'", t.Name, list)
}

// completeSelected resolves the row under the cursor to its current index by
// id right before mutating.
func (p tasksModel) completeSelected() (tasksModel, tea.Cmd) {
	t, ok := p.selectedTask()
	if !ok {
		return p, nil
	}
	if t.Completed {
		return p, notify("Task '%s' is already completed", t.Name)
	}

	list := p.currentList()
	idx, err := p.store.IndexOf(list, t.ID)
	if err == nil {
		err = p.store.CompleteTask(list, idx)
	}
	p.reload()
	if err != nil {
		p.log.Warn("complete task failed", "list", list, "task_id", t.ID, "error", err)
		return p, notifyError(err)
	}

	p.log.Info("task completed", "list", list, "task_id", t.ID)
	return p, notify("Task '%s' completed", t.Name)
}

func (p tasksModel) deleteSelected() (tasksModel, tea.Cmd) {
	t, ok := p.selectedTask()
	if !ok {
		return p, nil
	}

	list := p.currentList()
	idx, err := p.store.IndexOf(list, t.ID)
	if err == nil {
		_, err = p.store.DeleteTask(list, idx)
	}
	p.reload()
	if err != nil {
		p.log.Warn("delete task failed", "list", list, "task_id", t.ID, "error", err)
		return p, notifyError(err)
	}

	p.log.Info("task deleted", "list", list, "task_id", t.ID)
	return p, notify("Task '%s' deleted", t.Name)
}

// exportList snapshots the selected list now and writes the file off the
// update loop.
func (p tasksModel) exportList(format export.Format) tea.Cmd {
	list := p.currentList()
	items := slices.Clone(p.items)
	path := export.Path(p.exportDir, list, format, p.now())
	log := p.log

	return func() tea.Msg {
		if err := export.Write(format, list, items, path); err != nil {
			log.Error("export failed", "list", list, "format", string(format), "error", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		log.Info("list exported", "list", list, "format", string(format), "path", path)
		return exportDoneMsg{path: path}
	}
}

func (p tasksModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Task List")
		switch p.formType {
		case formAddTask:
			title = titleStyle.Render("Add Task to " + p.currentList())
		case formExport:
			title = titleStyle.Render("Export " + p.currentList())
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tasks Management")

	if len(p.lists) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No task lists available. Press n to create a new task list."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title, "", p.renderListSelector(w - 6), ""}

	if len(p.items) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks added yet. Press a to add one."))
	} else {
		rows = append(rows, p.table.View(), "", p.renderSummary())
	}

	hint := "n: new list  a: add  d: delete  e: export  ←/→: list"
	if t, ok := p.selectedTask(); ok && !t.Completed {
		hint = "n: new list  a: add  c: complete  d: delete  e: export  ←/→: list"
	}
	rows = append(rows, "", mutedStyle.Render("  "+hint))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderListSelector shows list keys in creation order with the selected one
// highlighted, scrolling to keep it visible.
func (p tasksModel) renderListSelector(w int) string {
	label := mutedStyle.Render("Select Date: ")
	var parts []string
	for i, k := range p.lists {
		name := truncate(k, 20)
		if i == p.selected {
			parts = append(parts, selectedItemStyle.Render("["+name+"]"))
		} else {
			parts = append(parts, normalItemStyle.Render(" "+name+" "))
		}
	}

	start := 0
	for start < p.selected && lipgloss.Width(strings.Join(parts[start:p.selected+1], " ")) > w-lipgloss.Width(label)-2 {
		start++
	}
	line := strings.Join(parts[start:], " ")
	if start > 0 {
		line = mutedStyle.Render("‹ ") + line
	}
	return label + line
}

func (p tasksModel) renderSummary() string {
	var done int
	counts := map[tasks.Priority]int{}
	for _, t := range p.items {
		if t.Completed {
			done++
		}
		counts[t.Priority]++
	}

	parts := []string{successStyle.Render(fmt.Sprintf("%d/%d done", done, len(p.items)))}
	for _, pr := range slices.Backward(tasks.Priorities()) {
		parts = append(parts, priorityStyle(pr).Render(fmt.Sprintf("%s %d", pr, counts[pr])))
	}
	return "  " + strings.Join(parts, mutedStyle.Render(" · "))
}
