// Package console drives a form controller from line-oriented commands.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recordbook/form"
	"recordbook/models"
	"recordbook/render"
)

const helpText = `commands:
  list                 reload the list
  filter [START END]   filter by creation day (YYYY-MM-DD, "-" leaves a side open);
                       without arguments the last 30 days are used
  clear                remove the date filter
  set FIELD VALUE      change a form input (%s)
  show                 print the form
  save                 create or update from the form
  get ID               fetch record ID and load it into the form
  edit N|ID            load an entry into the form
  cancel               leave edit mode and clear the form
  delete N|ID          delete an entry
  help                 print this help
  quit                 leave the console
`

type Console struct {
	prompt  *Prompt
	ctrl    *form.Controller
	surface *render.Text
	timeout time.Duration
}

func New(prompt *Prompt, ctrl *form.Controller, surface *render.Text, timeout time.Duration) *Console {
	return &Console{prompt: prompt, ctrl: ctrl, surface: surface, timeout: timeout}
}

// Run loads the list once, then executes commands until quit or end of
// input. Command failures are reported to the user and never end the loop.
func (c *Console) Run(ctx context.Context) error {
	c.withTimeout(ctx, c.ctrl.Reload)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		c.prompt.printf("%s> ", c.ctrl.Schema().Collection)
		line, ok := c.prompt.ReadLine()
		if !ok {
			return nil
		}
		if quit := c.Exec(ctx, line); quit {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the console should stop.
func (c *Console) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "quit", "exit":
		return true
	case "help":
		c.prompt.printf(helpText, strings.Join(c.fieldNames(), ", "))
	case "list", "reload":
		c.withTimeout(ctx, c.ctrl.Reload)
	case "filter":
		c.filter(ctx, args[1:])
	case "clear":
		c.withTimeout(ctx, c.ctrl.ClearFilter)
	case "set":
		c.set(line, args)
	case "show":
		c.show()
	case "save":
		c.withTimeout(ctx, c.ctrl.Submit)
	case "edit":
		rec, ok := c.entry(args)
		if !ok {
			return false
		}
		c.ctrl.BeginEdit(rec)
		c.show()
	case "get":
		if len(args) != 2 {
			c.prompt.Error("usage: get ID")
			return false
		}
		var err error
		c.withTimeout(ctx, func(ctx context.Context) error {
			err = c.ctrl.Open(ctx, args[1])
			return err
		})
		if err == nil {
			c.show()
		}
	case "cancel":
		c.ctrl.Cancel()
		c.show()
	case "delete":
		rec, ok := c.entry(args)
		if !ok {
			return false
		}
		c.withTimeout(ctx, func(ctx context.Context) error {
			return c.ctrl.Delete(ctx, rec.ID)
		})
	default:
		c.prompt.Error(fmt.Sprintf("unknown command %q, type help", args[0]))
	}
	return false
}

func (c *Console) filter(ctx context.Context, args []string) {
	var start, end string
	switch len(args) {
	case 0:
		r := c.ctrl.DefaultRange()
		start, end = r.Start, r.End
	case 2:
		start, end = openBound(args[0]), openBound(args[1])
	default:
		c.prompt.Error("usage: filter [START END]")
		return
	}
	c.withTimeout(ctx, func(ctx context.Context) error {
		return c.ctrl.ApplyFilter(ctx, start, end)
	})
}

func openBound(s string) string {
	if s == "-" {
		return ""
	}
	return s
}

// set keeps everything after the field name as the value, spaces included.
func (c *Console) set(line string, args []string) {
	if len(args) < 3 {
		c.prompt.Error("usage: set FIELD VALUE")
		return
	}
	field := args[1]
	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(rest[len(args[0]):])
	value := strings.TrimSpace(rest[len(field):])
	if err := c.ctrl.Set(field, value); err != nil {
		c.prompt.Error(err.Error())
	}
}

func (c *Console) show() {
	state := c.ctrl.State()
	view := state.View()
	schema := c.ctrl.Schema()

	var b strings.Builder
	fmt.Fprintf(&b, "-- %s form (%s) --\n", schema.Singular, state.Mode)
	if state.ID != "" {
		fmt.Fprintf(&b, "  id: %s\n", state.ID)
	}
	for _, f := range schema.Fields {
		fmt.Fprintf(&b, "  %s: %s\n", f.Name, state.Values[f.Name])
	}
	fmt.Fprintf(&b, "  %s: %s\n", form.CreatedAtField, state.CreatedAt)
	if view.ShowUpdatedAt {
		fmt.Fprintf(&b, "  updated_at: %s\n", state.UpdatedAt)
	}
	fmt.Fprintf(&b, "  [%s]", strings.ToLower(view.SubmitLabel))
	if view.ShowCancel {
		b.WriteString(" [cancel]")
	}
	b.WriteString("\n")
	c.prompt.printf("%s", b.String())
}

// entry resolves an entry number, or else the id of a listed record.
func (c *Console) entry(args []string) (rec models.Record, ok bool) {
	if len(args) != 2 {
		c.prompt.Error(fmt.Sprintf("usage: %s N|ID", args[0]))
		return rec, false
	}
	if n, err := strconv.Atoi(args[1]); err == nil {
		if rec, ok = c.surface.Entry(n); ok {
			return rec, true
		}
	}
	for _, listed := range c.surface.Entries() {
		if listed.ID == args[1] {
			return listed, true
		}
	}
	c.prompt.Error(fmt.Sprintf("no entry %s in the list", args[1]))
	return rec, false
}

func (c *Console) fieldNames() []string {
	fields := c.ctrl.Schema().Fields
	names := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return append(names, form.CreatedAtField)
}

// withTimeout runs op with the per-command deadline. Errors were already
// reported to the user by the controller.
func (c *Console) withTimeout(ctx context.Context, op func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_ = op(ctx)
}
