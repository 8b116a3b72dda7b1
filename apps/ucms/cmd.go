package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/auth"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/identity"
	"github.com/malindutharaka300/ucms-f/core/nav"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/session"
	"github.com/malindutharaka300/ucms-f/core/shell"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	confirmFunc      = confirm           // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf       *core.Config
	in         io.Reader
	out        io.Writer
	store      *session.Store
	api        *gateway.Client
	history    *nav.History
	shell      *shell.Shell
	auth       *auth.Service
	notifier   panel.Notifier
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
}

func newCommandLine(conf *core.Config, store *session.Store, logger core.Logger, in io.Reader, out io.Writer) *commandLine {
	cli := &commandLine{
		conf:     conf,
		in:       in,
		out:      out,
		store:    store,
		history:  nav.NewHistory(nav.RouteLogin),
		notifier: consoleNotifier{out},
		logger:   logger,
	}
	cli.validate, cli.translator = core.NewValidator()
	cli.api = gateway.New(gateway.Options{
		BaseURL: conf.APIURL,
		Timeout: conf.RequestTimeout,
		OnUnauthorized: func(context.Context) {
			cli.shell.Leave()
			cli.history.Replace(nav.RouteLogin)
		},
	}, store, logger)
	resolver := identity.NewResolver(cli.api, store, cli.history, logger)
	cli.shell = shell.New(cli.api, resolver, store, cli.history, logger)
	cli.auth = auth.NewService(cli.api, store, cli.history, cli.validate, cli.translator)
	return cli
}

func (cli *commandLine) run(args []string) error {
	root := &cobra.Command{
		Use:           "ucms",
		Short:         "University course management client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          help,
	}
	root.SetArgs(args[1:])
	root.SetIn(cli.in)
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	root.AddCommand(
		cli.loginCmd(),
		cli.registerCmd(),
		cli.logoutCmd(),
		cli.whoamiCmd(),
		cli.coursesCmd(),
		cli.contentsCmd(),
		cli.assignsCmd(),
		cli.resultsCmd(),
	)
	return root.ExecuteContext(context.Background())
}

func help(cmd *cobra.Command, _ []string) error {
	_ = cmd.Help()
	return errHelp
}

// group returns a parent command that only prints its usage.
func group(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short, RunE: help}
	cmd.AddCommand(children...)
	return cmd
}

func (cli *commandLine) readPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

// enter runs the session guard before any protected command.
func (cli *commandLine) enter(ctx context.Context) error {
	if _, err := cli.shell.Enter(ctx); err != nil {
		cli.notifier.Notify(panel.Failure, "Please log in first.")
		return err
	}
	return nil
}

func (cli *commandLine) panelDeps() panel.Deps {
	return panel.Deps{
		API:        cli.api,
		Identity:   cli.store,
		Notifier:   cli.notifier,
		Validate:   cli.validate,
		Translator: cli.translator,
		Logger:     cli.logger,
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// consoleNotifier prints notifications as status lines.
type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Notify(severity panel.Severity, msg string) {
	tag := "ok"
	if severity == panel.Failure {
		tag = "error"
	}
	fmt.Fprintf(n.out, "[%s] %s\n", tag, msg)
}
