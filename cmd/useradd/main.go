// Command useradd creates a database account from the terminal.
//
//	useradd -username dana -role employee -employee-id 3
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"companysite/internal/config"
	"companysite/internal/database"
	"companysite/internal/domain/auth"
	"companysite/internal/logging"
	"companysite/internal/migrations"
	"companysite/internal/session"
)

func main() {
	username := flag.String("username", "", "account name")
	role := flag.String("role", session.RoleEmployee, "employee or user")
	employeeID := flag.Int64("employee-id", 0, "linked employee (employee accounts)")
	flag.Parse()

	if strings.TrimSpace(*username) == "" {
		flag.Usage()
		os.Exit(2)
	}

	password, err := readPassword()
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatal(err)
	}
	if err := migrations.Run(ctx, db, logger); err != nil {
		log.Fatal(err)
	}

	svc := auth.NewService(auth.NewUserRepository(db), auth.NewLogRepository(db), config.NewEnvProvider(cfg.EnvFile), logger)
	in := auth.UserInput{Username: *username, Password: password, Role: *role, IsActive: true}
	if *employeeID > 0 {
		in.EmployeeID = employeeID
	}
	u, err := svc.CreateUser(ctx, in)
	if err != nil {
		log.Fatalf("create user: %v", err)
	}
	fmt.Printf("created user %q (id %d, role %s)\n", u.Username, u.ID, u.Role)
}

// readPassword prompts twice on a terminal and reads one line otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
