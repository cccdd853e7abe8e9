package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anand/task-tracker/backend/internal/client"
	"github.com/anand/task-tracker/backend/internal/models"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usage = `usage: tasker <command> [arguments]

commands:
  register <username> <password>   create an account
  login <username> <password>      log in and save the session token
  logout                           discard the saved session token
  list                             show your tasks
  add [-d desc] [-due date] [-tags a,b] <title>
                                   add a task (flags before the title)
  done <id>                        mark a task completed
  rm <id>                          delete a task
`

// App runs tasker commands against the API, keeping the session token in a
// file between invocations.
type App struct {
	api    *client.Client
	tokens *client.TokenFile
	out    io.Writer
	errOut io.Writer
}

func NewApp(api *client.Client, tokens *client.TokenFile, out, errOut io.Writer) *App {
	return &App{api: api, tokens: tokens, out: out, errOut: errOut}
}

// Run executes one command given the argument slice (excluding argv[0]) and
// returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return ExitUsage
	}

	// A saved token from an earlier login, if any.
	if tok, err := a.tokens.Load(); err == nil && tok != "" {
		a.api.SetToken(tok)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	case "list":
		return a.list(ctx)
	case "add":
		return a.add(ctx, rest)
	case "done":
		return a.done(ctx, rest)
	case "rm":
		return a.rm(ctx, rest)
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n%s", cmd, usage)
		return ExitUsage
	}
}

func (a *App) register(ctx context.Context, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(a.errOut, "usage: tasker register <username> <password>")
		return ExitUsage
	}
	id, err := a.api.Register(ctx, args[0], args[1])
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "registered %s (user %d); you can now log in\n", args[0], id)
	return ExitOK
}

func (a *App) login(ctx context.Context, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(a.errOut, "usage: tasker login <username> <password>")
		return ExitUsage
	}
	token, err := a.api.Login(ctx, args[0], args[1])
	if err != nil {
		return a.fail(err)
	}
	if err := a.tokens.Save(token); err != nil {
		fmt.Fprintf(a.errOut, "could not save session token: %v\n", err)
		return ExitError
	}
	fmt.Fprintf(a.out, "logged in as %s\n", args[0])
	return ExitOK
}

func (a *App) logout() int {
	a.api.Logout()
	if err := a.tokens.Clear(); err != nil {
		fmt.Fprintf(a.errOut, "could not remove session token: %v\n", err)
		return ExitError
	}
	fmt.Fprintln(a.out, "logged out")
	return ExitOK
}

func (a *App) list(ctx context.Context) int {
	tasks, err := a.api.Tasks(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "no tasks")
		return ExitOK
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("%4d [%s] %s", t.ID, mark, t.Title)
		if t.DueDate != "" {
			line += " (due " + t.DueDate + ")"
		}
		if t.Tags != "" {
			line += " #" + strings.ReplaceAll(t.Tags, ",", " #")
		}
		fmt.Fprintln(a.out, line)
	}
	return ExitOK
}

func (a *App) add(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	desc := fs.String("d", "", "description")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		fmt.Fprintln(a.errOut, "usage: tasker add [-d desc] [-due date] [-tags a,b] <title>")
		return ExitUsage
	}

	task, err := a.api.AddTask(ctx, models.TaskRequest{
		Title:       title,
		Description: *desc,
		DueDate:     *due,
		Tags:        *tags,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "added task %d: %s\n", task.ID, task.Title)
	return ExitOK
}

// done marks a task completed by replaying its current fields with the
// completed flag set, the same full-replace update the API defines.
func (a *App) done(ctx context.Context, args []string) int {
	id, ok := a.parseID(args, "done")
	if !ok {
		return ExitUsage
	}

	tasks, err := a.api.Tasks(ctx)
	if err != nil {
		return a.fail(err)
	}
	for _, t := range tasks {
		if t.ID != id {
			continue
		}
		err := a.api.UpdateTask(ctx, id, models.TaskRequest{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			Completed:   true,
			Tags:        t.Tags,
		})
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "completed task %d\n", id)
		return ExitOK
	}
	fmt.Fprintf(a.errOut, "no task with id %d\n", id)
	return ExitError
}

func (a *App) rm(ctx context.Context, args []string) int {
	id, ok := a.parseID(args, "rm")
	if !ok {
		return ExitUsage
	}
	if err := a.api.DeleteTask(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "deleted task %d\n", id)
	return ExitOK
}

func (a *App) parseID(args []string, cmd string) (int64, bool) {
	if len(args) != 1 {
		fmt.Fprintf(a.errOut, "usage: tasker %s <id>\n", cmd)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.errOut, "invalid task id %q\n", args[0])
		return 0, false
	}
	return id, true
}

// fail prints the error and, when the session is no longer valid, drops the
// saved token so the next command starts logged out.
func (a *App) fail(err error) int {
	if errors.Is(err, client.ErrUnauthenticated) {
		a.api.Logout()
		a.tokens.Clear()
		fmt.Fprintln(a.errOut, "not logged in or session expired; run 'tasker login <username> <password>'")
		return ExitError
	}
	fmt.Fprintln(a.errOut, err)
	return ExitError
}
