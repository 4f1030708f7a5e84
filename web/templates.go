package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/amonks/taskagent/internal/ui"
	"github.com/amonks/taskagent/task"
)

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"eq":           func(a, b string) bool { return a == b },
		"formatTime":   formatTime,
		"formatDue":    formatDue,
		"isAssistant":  func(role string) bool { return role == roleAssistant },
		"noDueColor":   func() string { return ui.ColorNoDueDate },
		"urgentColor":  func() string { return ui.ColorUrgent },
		"mutedColor":   func() string { return ui.ColorMuted },
		"statusLabel":  func(status task.Status) string { return string(status) },
		"isOpenStatus": func(status task.Status) bool { return status.IsOpen() },
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04")
}

func formatDue(due *task.Date) string {
	if due == nil {
		return "No due date"
	}
	return due.String()
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Task Agent {{if eq .ActiveTab "board"}}Board{{else}}Chat{{end}}</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
    }
    header h1 {
      margin: 0 0 8px 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .tabs {
      display: flex;
      gap: 12px;
    }
    .tab {
      padding: 8px 14px;
      border-radius: 999px;
      text-decoration: none;
      color: #5b5148;
      border: 1px solid transparent;
    }
    .tab.active {
      color: #1d1712;
      border-color: #d1c6b6;
      background: #f5efe4;
      font-weight: 600;
    }
    main {
      padding: 24px;
      max-width: 960px;
    }
    .message {
      margin: 0 0 12px 0;
      padding: 10px 14px;
      border-radius: 10px;
      white-space: pre-wrap;
      background: #ffffff;
      border: 1px solid #e4dccf;
    }
    .message.assistant {
      background: #f5efe4;
    }
    .message .role {
      display: block;
      font-size: 12px;
      text-transform: uppercase;
      color: #7a6e62;
      margin-bottom: 4px;
    }
    .card {
      padding: 12px 16px;
      margin: 0 0 12px 0;
      background: #ffffff;
      border: 1px solid #e4dccf;
      border-left: 6px solid #9e9e9e;
      border-radius: 8px;
    }
    .card h3 {
      margin: 0 0 6px 0;
      font-size: 16px;
    }
    .meta {
      font-size: 13px;
      color: #5b5148;
    }
    .error {
      color: #b3261e;
      margin: 0 0 12px 0;
    }
    .notice {
      white-space: pre-wrap;
      margin: 0 0 12px 0;
      padding: 10px 14px;
      background: #eef6ee;
      border-radius: 8px;
    }
    form.inline {
      display: inline;
    }
    .stats {
      display: flex;
      gap: 16px;
      font-size: 13px;
      margin-bottom: 16px;
    }
    label {
      display: block;
      margin: 8px 0 2px 0;
      font-size: 13px;
    }
  </style>
</head>
<body>
  <header>
    <h1>Task Agent</h1>
    <nav class="tabs">
      <a class="tab{{if eq .ActiveTab "chat"}} active{{end}}" href="/web/chat">Chat</a>
      <a class="tab{{if eq .ActiveTab "board"}} active{{end}}" href="/web/board">Board</a>
    </nav>
  </header>
  <main>
  {{if eq .ActiveTab "board"}}
    {{template "board" .}}
  {{else}}
    {{template "chat" .}}
  {{end}}
  </main>
</body>
</html>
{{define "chat"}}
    <div id="messages">
    {{range .Messages}}
      <div class="message{{if isAssistant .Role}} assistant{{end}}"><span class="role">{{.Role}}</span>{{.Text}}</div>
    {{else}}
      <p class="meta" id="empty">Ask me to create, list, update, or delete tasks.</p>
    {{end}}
    </div>
    <form id="chat-form" method="post" action="/web/chat/send">
      <input type="text" name="message" id="message" autocomplete="off" size="60" placeholder="What should I do?">
      <button type="submit">Send</button>
    </form>
    <script>
      (function () {
        if (!window.WebSocket) { return; }
        var scheme = location.protocol === "https:" ? "wss://" : "ws://";
        var socket = new WebSocket(scheme + location.host + "/ws");
        var form = document.getElementById("chat-form");
        var input = document.getElementById("message");
        var list = document.getElementById("messages");
        function append(role, text) {
          var empty = document.getElementById("empty");
          if (empty) { empty.remove(); }
          var div = document.createElement("div");
          div.className = "message" + (role === "assistant" ? " assistant" : "");
          var label = document.createElement("span");
          label.className = "role";
          label.textContent = role;
          div.appendChild(label);
          div.appendChild(document.createTextNode(text));
          list.appendChild(div);
        }
        socket.onmessage = function (event) {
          var payload = JSON.parse(event.data);
          append("assistant", payload.reply || payload.error || "");
        };
        form.addEventListener("submit", function (event) {
          if (socket.readyState !== WebSocket.OPEN) { return; }
          event.preventDefault();
          var text = input.value.trim();
          if (!text) { return; }
          append("user", text);
          socket.send(JSON.stringify({message: text}));
          input.value = "";
        });
      })();
    </script>
{{end}}
{{define "board"}}
    {{if .BoardError}}<p class="error">{{.BoardError}}</p>{{end}}
    {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
    <div class="stats">
      <span>Total: {{.Statistics.Total}}</span>
      <span>Pending: {{.Statistics.Pending}}</span>
      <span>In progress: {{.Statistics.InProgress}}</span>
      <span>Completed: {{.Statistics.Completed}}</span>
      <span>High priority: {{.Statistics.HighPriority}}</span>
    </div>
    <form method="get" action="/web/board" class="inline">
      <select name="status">
      {{range .FilterOptions}}
        <option value="{{.Value}}"{{if eq .Value $.StatusFilter}} selected{{end}}>{{.Label}}</option>
      {{end}}
      </select>
      <button type="submit">Filter</button>
    </form>
    <form method="post" action="/web/board/dedupe" class="inline">
      <button type="submit">Remove duplicates</button>
    </form>
    {{if .Selected}}
    <h2>Edit task {{.Selected.ID}}</h2>
    <form method="post" action="/web/board/update?id={{.Selected.ID}}">
      <label for="title">Title</label>
      <input type="text" id="title" name="title" value="{{.Form.Title}}" size="60">
      <label for="description">Description</label>
      <textarea id="description" name="description" rows="3" cols="60">{{.Form.Description}}</textarea>
      <label for="priority">Priority</label>
      <select id="priority" name="priority">
      {{range .PriorityOptions}}
        <option value="{{.Value}}"{{if eq .Value $.Form.Priority}} selected{{end}}>{{.Label}}</option>
      {{end}}
      </select>
      <label for="status">Status</label>
      <select id="status" name="status">
      {{range .StatusOptions}}
        <option value="{{.Value}}"{{if eq .Value $.Form.Status}} selected{{end}}>{{.Label}}</option>
      {{end}}
      </select>
      <label for="due_date">Due date</label>
      <input type="date" id="due_date" name="due_date" value="{{.Form.DueDate}}">
      <p><button type="submit">Save</button> <a href="/web/board">Close</a></p>
    </form>
    {{end}}
    <h2>Tasks</h2>
    {{range .Cards}}
    <div class="card" style="border-left-color: {{.StatusColor}}">
      <h3>{{.PriorityIcon}} {{.Task.Title}}</h3>
      {{if .Task.Description}}<p>{{.Task.Description}}</p>{{end}}
      <div class="meta">
        #{{.Task.ID}} · {{statusLabel .Task.Status}} · {{.Task.Priority}} · created {{formatTime .Task.CreatedAt}}
      </div>
      <div class="meta">
      {{if .Task.DueDate}}
        Due {{formatDue .Task.DueDate}} ·
        <span style="color: {{if .Due.Urgent}}{{urgentColor}}{{else}}{{mutedColor}}{{end}}">{{.Due.Label}}</span>
      {{else}}
        <span style="color: {{noDueColor}}">{{formatDue .Task.DueDate}}</span>
      {{end}}
      </div>
      <p>
        <a href="/web/board?id={{.Task.ID}}">Edit</a>
        {{if isOpenStatus .Task.Status}}
        <form method="post" action="/web/board/cancel?id={{.Task.ID}}" class="inline">
          <button type="submit">Cancel</button>
        </form>
        {{end}}
      </p>
    </div>
    {{else}}
    <p class="meta">No tasks yet.</p>
    {{end}}
{{end}}
`
