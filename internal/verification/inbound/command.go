package inbound

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
	"github.com/shandysiswandi/moviebuzz/internal/verification/usecase"
)

// Handle executes one input line. It returns false when the user quits.
func (t *Terminal) Handle(ctx context.Context, line string) bool {
	cmd, args := fields(line)
	if cmd == "" {
		return true
	}

	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		t.help()
		return true
	case "whoami":
		t.whoami()
		return true
	case "logout":
		t.report(t.uc.Logout(ctx))
		return true
	}

	screen, v := t.current()
	switch screen {
	case entity.RouteRegister:
		t.onRegister(ctx, cmd, args)
	case entity.RouteLogin:
		t.onLogin(ctx, cmd, args)
	case entity.RouteVerify:
		t.onVerify(ctx, v, line, cmd, args)
	case entity.RouteAdmin:
		t.onAdmin(ctx, cmd)
	default:
		t.unknown(cmd)
	}

	return true
}

func (t *Terminal) onRegister(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "register":
		if len(args) != 4 {
			t.printf("Usage: register <username> <email|mobile> <password> <confirm>\n")
			return
		}
		t.report(t.uc.Register(ctx, usecase.RegisterInput{
			Username:        args[0],
			Contact:         args[1],
			Password:        args[2],
			ConfirmPassword: args[3],
		}))
	case "login":
		t.Navigate(entity.RouteLogin, entity.HandOff{})
	default:
		t.unknown(cmd)
	}
}

func (t *Terminal) onLogin(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "login":
		if len(args) != 2 {
			t.printf("Usage: login <username> <password>\n")
			return
		}
		t.report(t.uc.Login(ctx, usecase.LoginInput{Username: args[0], Password: args[1]}))
	case "setup":
		if len(args) != 3 {
			t.printf("Usage: setup <username> <password> <confirm>\n")
			return
		}
		t.report(t.uc.SetupAdmin(ctx, usecase.SetupInput{
			Username:        args[0],
			Password:        args[1],
			ConfirmPassword: args[2],
		}))
	case "register":
		t.Navigate(entity.RouteRegister, entity.HandOff{})
	default:
		t.unknown(cmd)
	}
}

// verifyCommands are the words the verify screen reserves; any other line
// holding a digit is pasted as a whole.
var verifyCommands = map[string]bool{
	"digit": true, "back": true, "submit": true, "resend": true, "status": true, "register": true,
}

func (t *Terminal) onVerify(ctx context.Context, v *usecase.Verifier, line, cmd string, args []string) {
	if v == nil {
		t.unknown(cmd)
		return
	}

	switch {
	case !verifyCommands[cmd] && strings.ContainsFunc(line, isDigit):
		v.Paste(line)
		t.render(entity.RouteVerify, v)
	case cmd == "digit" && len(args) == 2:
		i, err := strconv.Atoi(args[0])
		if err != nil || !v.SetDigit(i-1, args[1]) {
			t.printf("Input ignored.\n")
			return
		}
		t.render(entity.RouteVerify, v)
	case cmd == "back" && len(args) == 1:
		i, err := strconv.Atoi(args[0])
		if err != nil {
			t.printf("Input ignored.\n")
			return
		}
		v.Backspace(i - 1)
		t.render(entity.RouteVerify, v)
	case cmd == "submit":
		t.dispatch(ctx, func(ctx context.Context) {
			err := v.Submit(ctx)
			if errors.Is(err, entity.ErrClosed) {
				return
			}
			if errors.Is(err, entity.ErrBusy) {
				t.printf("Verification already in progress.\n")
				return
			}
			t.render(entity.RouteVerify, v)
		})
	case cmd == "resend":
		t.dispatch(ctx, func(ctx context.Context) {
			err := v.Resend(ctx)
			switch {
			case errors.Is(err, entity.ErrClosed):
				return
			case errors.Is(err, entity.ErrResendThrottled):
				t.printf("Resend available in %ds.\n", v.View().Cooldown)
				return
			case errors.Is(err, entity.ErrBusy):
				t.printf("A new code is already on its way.\n")
				return
			}
			t.render(entity.RouteVerify, v)
		})
	case cmd == "status":
		t.render(entity.RouteVerify, v)
	case cmd == "register":
		t.Navigate(entity.RouteRegister, entity.HandOff{})
	default:
		t.unknown(cmd)
	}
}

func (t *Terminal) onAdmin(ctx context.Context, cmd string) {
	switch cmd {
	case "upload":
		if err := t.uc.Authorize(ctx, "movie", "upload"); err != nil {
			t.printf("Access denied: %s\n", goerror.Message(err))
			return
		}
		t.printf("Upload allowed.\n")
	case "status":
		t.render(entity.RouteAdmin, nil)
	default:
		t.unknown(cmd)
	}
}

func (t *Terminal) report(err error) {
	if err != nil {
		t.printf("Error: %s\n", goerror.Message(err))
	}
}

func (t *Terminal) unknown(cmd string) {
	t.printf("Unknown command %q. Type help.\n", cmd)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
