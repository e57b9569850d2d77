package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/capitals/internal/app"
	"github.com/mesh-intelligence/capitals/internal/clock"
	"github.com/mesh-intelligence/capitals/pkg/types"
)

// screen is a place in the shell's navigation stack.
type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenHome
	screenFavorites
	screenExit
)

// shell is an interactive session. The logged-in user lives only here.
type shell struct {
	svc  *app.Service
	src  clock.TimeSource
	tick time.Duration
	log  *slog.Logger

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// readSecret reads a password without echo. When nil, passwords are
	// read as plain lines.
	readSecret func() (string, error)

	user *types.User
}

func newShellCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long:  "Shell walks through the login, register, home and favorites screens.\nType help on any screen to list its commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			sh := &shell{
				svc:    svc,
				src:    e.timeSource(),
				tick:   e.settings.Clock.Tick,
				log:    e.log,
				in:     bufio.NewReader(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			if f, ok := stdinFile(cmd.InOrStdin()); ok && term.IsTerminal(int(f.Fd())) {
				fd := int(f.Fd())
				sh.readSecret = func() (string, error) {
					pw, err := term.ReadPassword(fd)
					return string(pw), err
				}
			}
			return sh.run(cmd.Context())
		},
	}
}

// run drives the screens until the user exits or input ends.
func (s *shell) run(ctx context.Context) error {
	next := screenLogin
	for next != screenExit {
		var err error
		switch next {
		case screenLogin:
			next, err = s.loginScreen(ctx)
		case screenRegister:
			next, err = s.registerScreen(ctx)
		case screenHome:
			next, err = s.homeScreen(ctx)
		case screenFavorites:
			next, err = s.favoritesScreen(ctx, s.user.ID)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sysError("could not read input", err)
		}
	}
	fmt.Fprintln(s.out, "Bye!")
	return nil
}

func (s *shell) loginScreen(ctx context.Context) (screen, error) {
	fmt.Fprintln(s.out, "\n== Login ==")
	fmt.Fprintln(s.out, "Commands: login, register, exit")
	for {
		cmd, _, err := s.command("login")
		if err != nil {
			return screenExit, err
		}
		switch cmd {
		case "":
		case "login":
			email, err := s.ask("Email")
			if err != nil {
				return screenExit, err
			}
			password, err := s.secret("Password")
			if err != nil {
				return screenExit, err
			}
			user, err := s.svc.Login(ctx, email, password)
			if err != nil {
				s.alert(app.Message(app.OpLogin, err))
				continue
			}
			s.user = user
			fmt.Fprintf(s.out, "Welcome, %s!\n", user.Name)
			return screenHome, nil
		case "register":
			return screenRegister, nil
		case "help":
			fmt.Fprintln(s.out, "Commands: login, register, exit")
		case "exit", "quit":
			return screenExit, nil
		default:
			s.alert("unknown command: " + cmd)
		}
	}
}

func (s *shell) registerScreen(ctx context.Context) (screen, error) {
	fmt.Fprintln(s.out, "\n== Register ==")
	name, err := s.ask("Name")
	if err != nil {
		return screenExit, err
	}
	email, err := s.ask("Email")
	if err != nil {
		return screenExit, err
	}
	password, err := s.secret(fmt.Sprintf("Password (at least %d characters)", types.MinPasswordLength))
	if err != nil {
		return screenExit, err
	}

	if _, err := s.svc.Register(ctx, name, email, password); err != nil {
		s.alert(app.Message(app.OpRegister, err))
		return screenLogin, nil
	}
	fmt.Fprintln(s.out, "Registration successful. Please log in.")
	return screenLogin, nil
}

const homeHelp = "Commands: show, sync, save <n>, favorites, delete-account, clear-users, logout, exit"

// homeScreen shows the clock board. The board ticks in the background while
// the screen is open and stops when the user leaves it.
func (s *shell) homeScreen(ctx context.Context) (screen, error) {
	ctx, cancel := context.WithCancel(ctx)
	board := clock.NewBoard(s.src, types.DefaultCities, s.log)
	board.Sync(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		board.Run(ctx, s.tick, nil)
	}()
	defer func() {
		cancel()
		<-done
	}()

	fmt.Fprintf(s.out, "\n== Home: %s ==\n", s.user.Name)
	printReadings(s.out, board.Readings())
	fmt.Fprintln(s.out, homeHelp)

	for {
		cmd, args, err := s.command("home")
		if err != nil {
			return screenExit, err
		}
		switch cmd {
		case "":
		case "show", "clocks":
			printReadings(s.out, board.Readings())
		case "sync":
			printReadings(s.out, board.Sync(ctx))
		case "save":
			s.saveFavorite(ctx, board, args)
		case "favorites", "fav":
			return screenFavorites, nil
		case "delete-account":
			ok, err := s.confirm("Delete your account and all its favorites?")
			if err != nil {
				return screenExit, err
			}
			if !ok {
				continue
			}
			if err := s.svc.DeleteAccount(ctx, s.user.ID); err != nil {
				s.alert(app.Message(app.OpDeleteAccount, err))
				continue
			}
			fmt.Fprintln(s.out, "Account deleted.")
			s.user = nil
			return screenLogin, nil
		case "clear-users":
			ok, err := s.confirm("Delete every user and every favorite?")
			if err != nil {
				return screenExit, err
			}
			if !ok {
				continue
			}
			if err := s.svc.ClearUsers(ctx); err != nil {
				s.alert(app.Message(app.OpClearUsers, err))
				continue
			}
			fmt.Fprintln(s.out, "All users deleted.")
			s.user = nil
			return screenLogin, nil
		case "logout":
			s.user = nil
			return screenLogin, nil
		case "help":
			fmt.Fprintln(s.out, homeHelp)
		case "exit", "quit":
			return screenExit, nil
		default:
			s.alert("unknown command: " + cmd)
		}
	}
}

func (s *shell) saveFavorite(ctx context.Context, board *clock.Board, args []string) {
	if len(args) != 1 {
		s.alert("usage: save <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		s.alert("usage: save <n>")
		return
	}
	reading, ok := board.Reading(n - 1)
	if !ok {
		s.alert(fmt.Sprintf("choose a city between 1 and %d", len(board.Readings())))
		return
	}
	if _, err := s.svc.SaveFavorite(ctx, s.user.ID, reading); err != nil {
		s.alert(app.Message(app.OpSaveFavorite, err))
		return
	}
	fmt.Fprintf(s.out, "Saved %s to favorites.\n", reading.City.Name)
}

const favoritesHelp = "Commands: list, delete <id>, clear, back, exit"

// favoritesScreen lists the favorites of userID.
func (s *shell) favoritesScreen(ctx context.Context, userID int64) (screen, error) {
	fmt.Fprintln(s.out, "\n== Favorites ==")
	s.listFavorites(ctx, userID)
	fmt.Fprintln(s.out, favoritesHelp)

	for {
		cmd, args, err := s.command("favorites")
		if err != nil {
			return screenExit, err
		}
		switch cmd {
		case "":
		case "list", "refresh":
			s.listFavorites(ctx, userID)
		case "delete":
			if len(args) != 1 {
				s.alert("usage: delete <id>")
				continue
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				s.alert("usage: delete <id>")
				continue
			}
			removed, err := s.svc.RemoveFavorite(ctx, id)
			switch {
			case err != nil:
				s.alert(app.Message(app.OpRemoveFavorite, err))
			case !removed:
				s.alert(fmt.Sprintf("favorite %d not found", id))
			default:
				s.listFavorites(ctx, userID)
			}
		case "clear":
			ok, err := s.confirm("Delete all your favorites?")
			if err != nil {
				return screenExit, err
			}
			if !ok {
				continue
			}
			if err := s.svc.ClearFavorites(ctx, userID); err != nil {
				s.alert(app.Message(app.OpClearFavorites, err))
				continue
			}
			s.listFavorites(ctx, userID)
		case "back", "home":
			return screenHome, nil
		case "help":
			fmt.Fprintln(s.out, favoritesHelp)
		case "exit", "quit":
			return screenExit, nil
		default:
			s.alert("unknown command: " + cmd)
		}
	}
}

func (s *shell) listFavorites(ctx context.Context, userID int64) {
	favs, err := s.svc.Favorites(ctx, userID)
	if err != nil {
		s.alert(app.Message(app.OpListFavorites, err))
		return
	}
	printFavorites(s.out, favs, time.Now())
}

// command prompts on the named screen and splits the reply into a
// lower-cased command and its arguments.
func (s *shell) command(name string) (string, []string, error) {
	fmt.Fprintf(s.out, "%s> ", name)
	line, err := s.readLine()
	if err != nil {
		return "", nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, nil
	}
	return strings.ToLower(fields[0]), fields[1:], nil
}

func (s *shell) ask(label string) (string, error) {
	fmt.Fprintf(s.out, "%s: ", label)
	return s.readLine()
}

func (s *shell) secret(label string) (string, error) {
	if s.readSecret == nil {
		return s.ask(label)
	}
	fmt.Fprintf(s.out, "%s: ", label)
	pw, err := s.readSecret()
	fmt.Fprintln(s.out)
	return pw, err
}

func (s *shell) confirm(question string) (bool, error) {
	answer, err := s.ask(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readLine reads one line without its line ending. A final line without
// a newline is returned before io.EOF.
func (s *shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *shell) alert(msg string) {
	fmt.Fprintln(s.errOut, "! "+msg)
}
