// Package bankctl implements the operator command line. Its only job is
// creating Admin principals, which the public API never does.
package bankctl

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/server/auth"
	"github.com/dmitrijs2005/gophbank/internal/server/config"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrUsage = errors.New("usage: bankctl [server flags] create-admin -u <username> -f <first name> -l <last name> -m <email> -n <national id>")

// splitCommand separates server flags from the subcommand and its flags.
// Everything before the first bare word belongs to the server config.
func splitCommand(args []string) (global []string, cmd string, rest []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			return args[:i], a, args[i+1:]
		}
		// skip the value of "-flag value"
		if !strings.Contains(a, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return args, "", nil
}

// Run executes one bankctl invocation. args excludes the program name.
func Run(ctx context.Context, args []string, stdout io.Writer) error {
	global, cmd, rest := splitCommand(args)

	switch cmd {
	case "create-admin":
		cfg, err := config.LoadConfig(global)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		return createAdmin(ctx, cfg, rest, stdout)
	default:
		return ErrUsage
	}
}

func createAdmin(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	var r services.Registration

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&r.Identifier, "u", "", "username")
	fs.StringVar(&r.FirstName, "f", "", "first name")
	fs.StringVar(&r.LastName, "l", "", "last name")
	fs.StringVar(&r.Email, "m", "", "email")
	fs.StringVar(&r.NationalID, "n", "", "national id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	pw, err := promptPassword(stdout)
	if err != nil {
		return err
	}
	r.Password = pw

	hasher, err := auth.NewHasher(cfg.HashScheme)
	if err != nil {
		return err
	}

	rm, err := repomanager.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer rm.Close()

	if err := rm.RunMigrations(ctx); err != nil {
		return fmt.Errorf("db migration error: %w", err)
	}

	ps := services.NewPrincipalService(rm, nil, hasher, cfg.AccessTokenValidityDuration)
	p, err := ps.Register(ctx, r, models.RoleAdmin)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "admin %q created\n", p.Identifier)
	return nil
}

// promptPassword reads the password twice without echo.
func promptPassword(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())

	fmt.Fprint(w, "Password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if !bytes.Equal(first, second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
