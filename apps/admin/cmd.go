package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/studyplanner/core/studyplan"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sqlx.DB
	engine string
	svc    studyplan.ServiceInterface
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Println("  flushcache -user USER_ID - remove the user's cached study plans")
	fmt.Println("  strength -user USER_ID -course COURSE_ID -value 1..5 - set the user's strength for a course")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	flushCacheCmd := flag.NewFlagSet("flushcache", flag.ContinueOnError)
	flushCacheUser := flushCacheCmd.String("user", "", "The user's ID.")

	strengthCmd := flag.NewFlagSet("strength", flag.ContinueOnError)
	strengthUser := strengthCmd.String("user", "", "The user's ID.")
	strengthCourse := strengthCmd.Int("course", 0, "The course ID.")
	strengthValue := strengthCmd.Int("value", 0, "The strength, from 1 (weakest) to 5 (strongest).")

	ctx := context.Background()

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "flushcache":
		if err := flushCacheCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		userID, err := parseUserID(*flushCacheUser)
		if err != nil {
			flushCacheCmd.Usage()
			return errHelp
		}
		return cli.flushCache(ctx, userID)
	case "strength":
		if err := strengthCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		userID, err := parseUserID(*strengthUser)
		if err != nil || *strengthCourse <= 0 {
			strengthCmd.Usage()
			return errHelp
		}
		return cli.setStrength(ctx, userID, *strengthCourse, *strengthValue)
	default:
		cli.printUsage()
		return errHelp
	}
}

func parseUserID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
