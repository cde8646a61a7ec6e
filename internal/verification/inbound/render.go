package inbound

import (
	"strconv"
	"strings"

	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
	"github.com/shandysiswandi/moviebuzz/internal/verification/usecase"
)

var screenHelp = map[entity.Route]string{
	entity.RouteRegister: "register <username> <email|mobile> <password> <confirm>, login",
	entity.RouteLogin:    "login <username> <password>, setup <username> <password> <confirm>, register",
	entity.RouteVerify:   "paste the code, digit <n> <d>, back <n>, submit, resend, status, register",
	entity.RouteAdmin:    "upload, status",
}

func (t *Terminal) help() {
	screen, _ := t.current()

	var b strings.Builder
	b.WriteString("Commands: help, whoami, logout, quit\n")
	if h, ok := screenHelp[screen]; ok {
		b.WriteString("On this screen: " + h + "\n")
	}
	t.printf("%s", b.String())
}

func (t *Terminal) whoami() {
	s := t.uc.Current()
	if !s.Authenticated() {
		t.printf("Not signed in.\n")
		return
	}

	t.printf("%s (verified=%t admin=%t)\n", s.User.Username, s.User.IsVerified, s.User.IsAdmin)
}

func (t *Terminal) render(route entity.Route, v *usecase.Verifier) {
	var b strings.Builder

	switch route {
	case entity.RouteRegister:
		b.WriteString("== Register ==\n")
	case entity.RouteLogin:
		b.WriteString("== Login ==\n")
	case entity.RouteAdmin:
		b.WriteString("== Admin ==\n")
		if s := t.uc.Current(); s.Authenticated() {
			b.WriteString("Signed in as " + s.User.Username + "\n")
		}
	case entity.RouteVerify:
		if v == nil {
			return
		}
		renderVerify(&b, v.View())
	default:
		b.WriteString("== " + route.String() + " ==\n")
	}

	t.printf("%s", b.String())
}

func renderVerify(b *strings.Builder, view entity.View) {
	b.WriteString("== Verify your account ==\n")

	if view.Mode == entity.ModeDemo {
		b.WriteString("Your verification code: " + view.DisplayCode + " (demo mode - no delivery service)\n")
	} else {
		b.WriteString("A code was sent to " + view.Identifier + "\n")
	}

	b.WriteString("[")
	for i, c := range view.Cells {
		if i > 0 {
			b.WriteString(" ")
		}
		switch {
		case c != "":
			b.WriteString(c)
		case i == view.Focus:
			b.WriteString("^")
		default:
			b.WriteString("_")
		}
	}
	b.WriteString("]\n")

	switch {
	case view.Submitting:
		b.WriteString("Verifying...\n")
	case view.Resending:
		b.WriteString("Sending a new code...\n")
	case view.State.Terminal():
	case view.Cooldown > 0:
		b.WriteString("Wait " + strconv.Itoa(view.Cooldown) + "s\n")
	case view.CanResend:
		b.WriteString("Resend available\n")
	}

	if view.Error != "" {
		b.WriteString("Error: " + view.Error + "\n")
	}
	if view.Success != "" {
		b.WriteString(view.Success + "\n")
	}
}
