package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	identityapp "github.com/webgarden/platform/internal/application/identity"
	"github.com/webgarden/platform/internal/domain/identity"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/infrastructure/logger"
	"github.com/webgarden/platform/internal/infrastructure/persistence"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stderr",
	})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	accountRepo := persistence.NewGormAccountRepository(db.DB)
	accounts := identityapp.NewAccountService(accountRepo, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, accounts, command, args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, accounts *identityapp.AccountService, command string, args []string) error {
	switch command {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: usersctl create <username> <email> [role]")
		}
		role := string(identity.RoleEditor)
		if len(args) > 2 {
			role = args[2]
		}
		password, err := readPassword()
		if err != nil {
			return err
		}
		account, err := accounts.Create(ctx, identityapp.CreateAccountInput{
			Username: args[0],
			Email:    args[1],
			Password: password,
			Role:     role,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created %s account %q (%s)\n", account.Role, account.Username, account.ID)
		return nil

	case "list":
		result, err := accounts.List(ctx, identity.AccountFilter{PageSize: 100})
		if err != nil {
			return err
		}
		fmt.Printf("%-20s %-30s %-8s %-8s %s\n", "USERNAME", "EMAIL", "ROLE", "ACTIVE", "LAST LOGIN")
		for _, a := range result.Accounts {
			lastLogin := "never"
			if a.LastLoginAt != nil {
				lastLogin = a.LastLoginAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("%-20s %-30s %-8s %-8t %s\n", a.Username, a.Email, a.Role, a.Active, lastLogin)
		}
		return nil

	case "reset-password":
		account, err := findAccount(ctx, accounts, args)
		if err != nil {
			return err
		}
		password, err := readPassword()
		if err != nil {
			return err
		}
		if err := accounts.ResetPassword(ctx, account.ID, password); err != nil {
			return err
		}
		fmt.Printf("Password reset for %q\n", account.Username)
		return nil

	case "set-role":
		if len(args) < 2 {
			return fmt.Errorf("usage: usersctl set-role <username> <admin|editor>")
		}
		account, err := findAccount(ctx, accounts, args[:1])
		if err != nil {
			return err
		}
		role := args[1]
		updated, err := accounts.Update(ctx, identityapp.UpdateAccountInput{
			ID:   account.ID,
			Role: &role,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Account %q is now %s\n", updated.Username, updated.Role)
		return nil

	case "activate", "deactivate":
		account, err := findAccount(ctx, accounts, args)
		if err != nil {
			return err
		}
		updated, err := accounts.SetActive(ctx, account.ID, command == "activate")
		if err != nil {
			return err
		}
		fmt.Printf("Account %q active=%t\n", updated.Username, updated.Active)
		return nil

	case "unlock":
		account, err := findAccount(ctx, accounts, args)
		if err != nil {
			return err
		}
		if _, err := accounts.Unlock(ctx, account.ID); err != nil {
			return err
		}
		fmt.Printf("Account %q unlocked\n", account.Username)
		return nil

	case "delete":
		account, err := findAccount(ctx, accounts, args)
		if err != nil {
			return err
		}
		if err := accounts.Delete(ctx, account.ID); err != nil {
			return err
		}
		fmt.Printf("Account %q deleted\n", account.Username)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// findAccount resolves the first argument as a username or account ID.
func findAccount(ctx context.Context, accounts *identityapp.AccountService, args []string) (*identityapp.AccountDTO, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("username or account ID required")
	}
	if id, err := uuid.Parse(args[0]); err == nil {
		return accounts.GetByID(ctx, id)
	}
	return accounts.GetByUsername(ctx, args[0])
}

// readPassword takes the password from WEBGARDEN_PASSWORD when set,
// otherwise prompts on stdin. Scripted use goes through the variable
// so the password never lands in shell history via argv.
func readPassword() (string, error) {
	if p := os.Getenv("WEBGARDEN_PASSWORD"); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printUsage() {
	fmt.Println(`WebGarden Account Management Tool

Usage:
  usersctl [flags] <command> [arguments]

Commands:
  create <username> <email> [role]   Create an account (role: admin or editor, default editor)
  list                               List accounts
  reset-password <username|id>       Set a new password for an account
  set-role <username|id> <role>      Change an account's role
  activate <username|id>             Activate an account
  deactivate <username|id>           Deactivate an account
  unlock <username|id>               Clear a login lockout
  delete <username|id>               Delete an account

The password for create and reset-password is read from the
WEBGARDEN_PASSWORD environment variable, or prompted on stdin.

Flags:
  -log-level string  Log level (default: warn)`)
}
