// Package admin implements the operator commands of the files manager CLI.
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrUsage = errors.New("usage: cli useradd -email <email>")

// Registrar creates users.
type Registrar interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
}

// Run dispatches args[0] as a subcommand. Flags meant for the server
// configuration may be mixed in and are ignored here.
func Run(ctx context.Context, r Registrar, args []string, w io.Writer) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "useradd":
		return UserAdd(ctx, r, args[1:], w)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

// UserAdd registers a user, reading the password twice from the terminal
// without echo.
func UserAdd(ctx context.Context, r Registrar, args []string, w io.Writer) error {
	var email string

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&email, "email", "", "user email")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "--email"})); err != nil {
		return fmt.Errorf("%v: %w", err, ErrUsage)
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return ErrUsage
	}

	password, err := GetPassword(w, "Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(w, "Repeat password: ")
	if err != nil {
		return err
	}
	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}

	user, err := r.Register(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "created user %s (%s)\n", user.Email, user.ID)
	return nil
}

// GetPassword prints prompt to w and reads a password from the terminal
// without echo.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
