package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Paul200287/GradeTracker/auth"
	"github.com/Paul200287/GradeTracker/clientstore"
	"github.com/Paul200287/GradeTracker/gateway"
	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/internal/utils"
	"github.com/Paul200287/GradeTracker/internal/validation"
	"github.com/Paul200287/GradeTracker/subjects"
	"github.com/Paul200287/GradeTracker/users"
)

const usage = `usage: consolectl [-backend URL] [-state FILE] <command> [arguments]

commands:
  login -email EMAIL [-password PASSWORD]   sign in (password read from stdin when omitted)
  logout                                    forget the stored token
  whoami                                    show the signed-in user
  subjects list [-q TERM]                   list subjects, optionally filtered
  subjects get ID                           show one subject
  subjects create -name NAME [fields]       create a subject
  subjects update ID -name NAME [fields]    replace a subject's fields
  subjects delete ID                        delete a subject
  users list                                list users (superusers only)
`

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type cli struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	backendURL string
	timeout    time.Duration

	store *clientstore.Store
	api   *gateway.Client
}

// terminalNavigator reports a forced logout; there is no page to leave.
type terminalNavigator struct {
	out io.Writer
}

func (n terminalNavigator) Navigate(string) {
	fmt.Fprintln(n.out, "session expired, please log in again")
}

// Run executes one command and returns the process exit code.
func (c *cli) Run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("consolectl", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { fmt.Fprint(c.stderr, usage) }
	backendURL := fs.String("backend", c.backendURL, "backend base URL")
	statePath := fs.String("state", "", "state file (default: user config dir)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	if *statePath == "" {
		path, err := clientstore.DefaultStatePath(appDir)
		if err != nil {
			return c.fail(err)
		}
		*statePath = path
	}
	c.backendURL = *backendURL
	c.store = clientstore.New(clientstore.NewFileStorage(*statePath))

	api, err := gateway.New(c.backendURL, c.store, terminalNavigator{out: c.stderr}, gateway.WithTimeout(c.timeout))
	if err != nil {
		return c.fail(err)
	}
	c.api = api

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		err = c.login(ctx, rest)
	case "logout":
		c.store.Clear(ctx)
		fmt.Fprintln(c.stdout, "Signed out")
	case "whoami":
		err = c.whoami(ctx)
	case "subjects":
		err = c.subjects(ctx, rest)
	case "users":
		err = c.users(ctx, rest)
	default:
		fmt.Fprintf(c.stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return exitUsage
	}
	if err != nil {
		return c.fail(err)
	}
	return exitOK
}

func (c *cli) fail(err error) int {
	if apperrors.Is(err, errUsage) {
		fmt.Fprintf(c.stderr, "%s\n\n%s", err, usage)
		return exitUsage
	}
	fmt.Fprintln(c.stderr, "error:", message(err))
	return exitError
}

var errUsage = errors.New("invalid arguments")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func message(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrMissingCredentials):
		return "Email and password are required"
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return "Invalid email or password"
	case apperrors.Is(err, apperrors.ErrNotLoggedIn):
		return "User not logged in"
	case apperrors.Is(err, apperrors.ErrValidation):
		return validation.Message(err)
	case apperrors.Is(err, apperrors.ErrTransport):
		return "could not reach the backend: " + err.Error()
	}
	return gateway.ErrorMessage(err)
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return usageError("%s", err)
	}

	if *password == "" {
		fmt.Fprint(c.stderr, "Password: ")
		line, err := bufio.NewReader(c.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	verifier := auth.NewBackendVerifier(c.backendURL, c.api.HTTPClient(), c.timeout)
	identity, err := auth.NewService(verifier).Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	c.store.Set(ctx, identity.AccessToken, identity.User)
	fmt.Fprintf(c.stdout, "Signed in as %s\n", identity.User.DisplayName())
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	if _, ok := c.store.Token(ctx); !ok {
		return apperrors.ErrNotLoggedIn
	}
	profile, err := users.NewClient(c.api).Profile(ctx)
	if err != nil {
		return err
	}
	c.store.SetUser(ctx, profile)

	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Username\t%s\n", profile.Username)
	fmt.Fprintf(w, "Email\t%s\n", profile.Email)
	fmt.Fprintf(w, "Role\t%s\n", profile.Role)
	return w.Flush()
}

func (c *cli) users(ctx context.Context, args []string) error {
	if len(args) != 1 || args[0] != "list" {
		return usageError("users takes one subcommand: list")
	}
	list, err := users.NewClient(c.api).List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, u := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	return w.Flush()
}

func (c *cli) subjects(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("subjects needs a subcommand")
	}
	client := subjects.NewClient(c.api, c.store)

	switch sub, rest := args[0], args[1:]; sub {
	case "list":
		fs := flag.NewFlagSet("subjects list", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		q := fs.String("q", "", "filter term")
		if err := fs.Parse(rest); err != nil {
			return usageError("%s", err)
		}
		list, err := client.List(ctx)
		if err != nil {
			return err
		}
		return c.printSubjects(subjects.Filter(list, *q))

	case "get":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		s, err := client.Get(ctx, id)
		if err != nil {
			return err
		}
		return c.printSubjects([]subjects.Subject{*s})

	case "create":
		in, err := parseInput("subjects create", rest)
		if err != nil {
			return err
		}
		s, err := client.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Created subject %d (%s)\n", s.ID, s.Name)
		return nil

	case "update":
		id, rest, err := parseID(rest)
		if err != nil {
			return err
		}
		in, err := parseInput("subjects update", rest)
		if err != nil {
			return err
		}
		s, err := client.Update(ctx, id, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Updated subject %d (%s)\n", s.ID, s.Name)
		return nil

	case "delete":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		if err := client.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Deleted subject %d\n", id)
		return nil
	}
	return usageError("unknown subjects subcommand %q", args[0])
}

func parseID(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, usageError("missing subject id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, nil, usageError("invalid subject id %q", args[0])
	}
	return id, args[1:], nil
}

func parseInput(name string, args []string) (subjects.Input, error) {
	var in subjects.Input
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&in.Name, "name", "", "subject name")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.Semester, "semester", "", "semester, e.g. WS24")
	fs.StringVar(&in.TeacherName, "teacher", "", "teacher name")
	if err := fs.Parse(args); err != nil {
		return subjects.Input{}, usageError("%s", err)
	}
	return in, nil
}

func (c *cli) printSubjects(list []subjects.Subject) error {
	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSEMESTER\tTEACHER\tUPDATED")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, utils.Value(s.Semester), utils.Value(s.TeacherName), s.UpdatedAt.Display())
	}
	return w.Flush()
}
