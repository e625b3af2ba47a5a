package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/store"
)

// form edits one record. An empty id means the record is new.
type form struct {
	collection store.Collection
	id         string
	fields     []model.Field
	inputs     []textinput.Model
	focus      int
	err        error
}

func newForm(c store.Collection, fields []model.Field, values model.Form) *form {
	f := &form{collection: c, id: values.Get("id"), fields: fields}
	for i, fd := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 500
		ti.Width = 40
		ti.SetValue(values[fd.Key])
		if fd.Date {
			ti.Placeholder = "YYYY-MM-DD"
		}
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func (f *form) setFocus(i int) {
	n := len(f.inputs)
	i = ((i % n) + n) % n
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// update handles one key. submit is true when enter is pressed on the last
// field, cancel when esc is pressed.
func (f *form) update(msg tea.KeyMsg) (submit, cancel bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		return false, true, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return false, false, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return false, false, nil
	case "enter":
		if f.focus == len(f.inputs)-1 {
			return true, false, nil
		}
		f.setFocus(f.focus + 1)
		return false, false, nil
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, false, cmd
}

// values collects the inputs into a form, carrying the id on edit.
func (f *form) values() model.Form {
	out := model.Form{}
	if f.id != "" {
		out["id"] = f.id
	}
	for i, fd := range f.fields {
		out[fd.Key] = f.inputs[i].Value()
	}
	return out
}

func (f *form) view(title string) string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render(title))
	b.WriteString("\n")
	for i, fd := range f.fields {
		label := fd.Label
		if fd.Required {
			label += " *"
		}
		style := itemMetaStyle
		if i == f.focus {
			style = promptStyle
		}
		b.WriteString(style.Render(padRight(label, 10)))
		b.WriteString(" ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(itemMetaStyle.Render("tab next · enter save · esc cancel"))
	return formBoxStyle.Render(b.String())
}
