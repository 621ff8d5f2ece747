package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	db     *sqlx.DB
	usrSvc *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  initdb                      - apply migrations and seed the default staff account")
	fmt.Println("  migrate COMMAND [ARGS]      - run a goose migration command (up, down, status, ...)")
	fmt.Println("  adduser -username USERNAME  - create a staff account; the password is prompted next")
	fmt.Println("  listusers                   - list all staff accounts")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The new account's username. The password will be prompted next.")

	switch args[1] {
	case "initdb":
		return cli.initDB()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return database.RunGoose(args[2], cli.db, args[3:]...)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, string(pwd))
	case "listusers":
		return cli.listUsers()
	default:
		cli.printUsage()
		return errHelp
	}
}

// initDB applies pending migrations and seeds the default staff account if no
// account exists yet; rerunning it is a no-op.
func (cli *commandLine) initDB() error {
	if err := database.Migrate(cli.db); err != nil {
		return err
	}

	hasUsers, err := cli.usrSvc.HasUsers()
	if err != nil {
		return err
	}
	if hasUsers {
		fmt.Println("database already initialized")
		return nil
	}

	nu := user.NewUser{
		Username: cli.conf.DefaultAdmin.Username,
		Password: cli.conf.DefaultAdmin.Password,
	}
	usr, err := cli.usrSvc.Register(nu)
	if err != nil {
		return err
	}
	fmt.Printf("default account %q created\n", usr.Username)
	return nil
}

func (cli *commandLine) addUser(uname, pwd string) error {
	usr, err := cli.usrSvc.Register(user.NewUser{Username: core.CleanString(uname, true), Password: pwd})
	if err != nil {
		return err
	}
	fmt.Printf("account %q created\n", usr.Username)
	return nil
}

func (cli *commandLine) listUsers() error {
	users, err := cli.usrSvc.QueryAll()
	if err != nil {
		return err
	}
	for _, usr := range users {
		fmt.Printf("%d\t%s\t%s\n", usr.ID, usr.Username, usr.CreatedAt.Format(time.RFC3339))
	}
	fmt.Printf("%d account(s)\n", len(users))
	return nil
}
