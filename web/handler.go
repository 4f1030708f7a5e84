package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/taskagent/internal/ui"
	"github.com/amonks/taskagent/task"
)

// dedupeRequest is sent through the agent by the board's remove-duplicates button.
const dedupeRequest = "remove duplicate tasks"

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

type chatMessage struct {
	Role string
	Text string
}

type selectOption struct {
	Value string
	Label string
}

type boardCard struct {
	Task         task.Task
	Due          ui.Countdown
	StatusColor  string
	PriorityIcon string
}

type pageData struct {
	ActiveTab       string
	Messages        []chatMessage
	Cards           []boardCard
	Selected        *task.Task
	SelectedID      int64
	Form            boardFormValues
	StatusFilter    string
	Statistics      task.Statistics
	BoardError      string
	Notice          string
	FilterOptions   []selectOption
	StatusOptions   []selectOption
	PriorityOptions []selectOption
}

type boardFormValues struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
}

type boardDraft struct {
	id        int64
	err       string
	notice    string
	values    boardFormValues
	hasValues bool
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	s.templates.Render(w, pageData{
		ActiveTab: "chat",
		Messages:  s.messages(),
	})
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form input", http.StatusBadRequest)
		return
	}
	message := trimmedFormValue(r, "message")
	if message != "" {
		s.converse(r, message)
	}
	http.Redirect(w, r, "/web/chat", http.StatusSeeOther)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	now := s.now()
	s.store.EscalateDue(now)

	boardError := ""
	filter := trimmedQueryValue(r, "status")
	var status task.Status
	if filter != "" {
		parsed, err := task.ParseStatus(filter)
		if err != nil {
			boardError = err.Error()
			filter = ""
		}
		status = parsed
	}
	tasks := s.store.List(task.ListFilter{Status: status})
	task.SortByPriority(tasks)
	cards := make([]boardCard, 0, len(tasks))
	for _, item := range tasks {
		cards = append(cards, newBoardCard(item, now))
	}

	selectedID, _ := parseTaskID(trimmedQueryValue(r, "id"))
	var selected *task.Task
	form := boardFormValues{}
	if selectedID != 0 {
		if found, ok := s.store.Get(selectedID); ok {
			selected = &found
			form = boardFormValuesFromTask(found)
		}
	}

	notice := ""
	if draft := s.consumeBoardDraft(selectedID); draft != nil {
		if draft.err != "" {
			boardError = draft.err
		}
		notice = draft.notice
		if draft.hasValues {
			form = draft.values
		}
	}

	s.templates.Render(w, pageData{
		ActiveTab:       "board",
		Cards:           cards,
		Selected:        selected,
		SelectedID:      selectedID,
		Form:            form,
		StatusFilter:    filter,
		Statistics:      s.store.Statistics(),
		BoardError:      boardError,
		Notice:          notice,
		FilterOptions:   filterOptions(),
		StatusOptions:   statusOptions(),
		PriorityOptions: priorityOptions(),
	})
}

func (s *Server) handleBoardUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	id, err := parseTaskID(trimmedQueryValue(r, "id"))
	if err != nil {
		s.setBoardDraft(boardDraft{err: err.Error()})
		http.Redirect(w, r, "/web/board", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.setBoardDraft(boardDraft{id: id, err: "invalid form input"})
		http.Redirect(w, r, boardRedirectPath(id), http.StatusSeeOther)
		return
	}
	values := boardFormValuesFromRequest(r)
	options, err := values.updateOptions()
	if err != nil {
		s.setBoardDraft(boardDraft{id: id, err: err.Error(), values: values, hasValues: true})
		http.Redirect(w, r, boardRedirectPath(id), http.StatusSeeOther)
		return
	}
	if _, ok := s.store.Update(id, options); !ok {
		s.setBoardDraft(boardDraft{err: fmt.Sprintf("task %d not found", id)})
		http.Redirect(w, r, "/web/board", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, boardRedirectPath(id), http.StatusSeeOther)
}

func (s *Server) handleBoardCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	id, err := parseTaskID(trimmedQueryValue(r, "id"))
	if err != nil {
		s.setBoardDraft(boardDraft{err: err.Error()})
		http.Redirect(w, r, "/web/board", http.StatusSeeOther)
		return
	}
	updated, ok := s.store.Update(id, task.UpdateOptions{Status: task.StatusCanceled})
	if !ok {
		s.setBoardDraft(boardDraft{err: fmt.Sprintf("task %d not found", id)})
	} else {
		s.setBoardDraft(boardDraft{notice: fmt.Sprintf("Task '%s' canceled.", updated.Title)})
	}
	http.Redirect(w, r, "/web/board", http.StatusSeeOther)
}

func (s *Server) handleBoardDedupe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	reply := s.converse(r, dedupeRequest)
	s.setBoardDraft(boardDraft{notice: reply})
	http.Redirect(w, r, "/web/board", http.StatusSeeOther)
}

func (s *Server) consumeBoardDraft(selectedID int64) *boardDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.boardDraft == nil {
		return nil
	}
	if s.boardDraft.id != 0 && s.boardDraft.id != selectedID {
		return nil
	}
	draft := s.boardDraft
	s.boardDraft = nil
	return draft
}

func (s *Server) setBoardDraft(draft boardDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boardDraft = &draft
}

func newBoardCard(item task.Task, now time.Time) boardCard {
	card := boardCard{
		Task:         item,
		StatusColor:  ui.StatusColor(item.Status),
		PriorityIcon: ui.PriorityIcon(item.Priority),
	}
	if item.DueDate != nil {
		card.Due = ui.DueCountdown(*item.DueDate, now)
	}
	return card
}

func boardFormValuesFromTask(item task.Task) boardFormValues {
	values := boardFormValues{
		Title:       item.Title,
		Description: item.Description,
		Priority:    string(item.Priority),
		Status:      string(item.Status),
	}
	if item.DueDate != nil {
		values.DueDate = item.DueDate.String()
	}
	return values
}

func boardFormValuesFromRequest(r *http.Request) boardFormValues {
	return boardFormValues{
		Title:       trimmedFormValue(r, "title"),
		Description: r.FormValue("description"),
		Priority:    trimmedFormValue(r, "priority"),
		Status:      trimmedFormValue(r, "status"),
		DueDate:     trimmedFormValue(r, "due_date"),
	}
}

// updateOptions validates the edit form. Blank fields other than the title
// leave the stored value alone.
func (values boardFormValues) updateOptions() (task.UpdateOptions, error) {
	if err := task.ValidateTitle(values.Title); err != nil {
		return task.UpdateOptions{}, err
	}
	options := task.UpdateOptions{
		Title:       values.Title,
		Description: values.Description,
	}
	if values.Priority != "" {
		priority, err := task.ParsePriority(values.Priority)
		if err != nil {
			return task.UpdateOptions{}, err
		}
		options.Priority = priority
	}
	if values.Status != "" {
		status, err := task.ParseStatus(values.Status)
		if err != nil {
			return task.UpdateOptions{}, err
		}
		options.Status = status
	}
	if values.DueDate != "" {
		due, err := task.ParseDate(values.DueDate)
		if err != nil {
			return task.UpdateOptions{}, err
		}
		options.DueDate = &due
	}
	return options, nil
}

func parseTaskID(value string) (int64, error) {
	if value == "" {
		return 0, fmt.Errorf("task id is required")
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", value)
	}
	return id, nil
}

func trimmedQueryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func filterOptions() []selectOption {
	options := []selectOption{{Value: "", Label: "All"}}
	return append(options, statusOptions()...)
}

func statusOptions() []selectOption {
	options := make([]selectOption, 0, len(task.ValidStatuses()))
	for _, status := range task.ValidStatuses() {
		options = append(options, selectOption{Value: string(status), Label: string(status)})
	}
	return options
}

func priorityOptions() []selectOption {
	options := make([]selectOption, 0, len(task.ValidPriorities()))
	for _, priority := range task.ValidPriorities() {
		options = append(options, selectOption{Value: string(priority), Label: ui.PriorityIcon(priority) + " " + string(priority)})
	}
	return options
}

func boardRedirectPath(id int64) string {
	if id == 0 {
		return "/web/board"
	}
	return "/web/board?id=" + strconv.FormatInt(id, 10)
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
