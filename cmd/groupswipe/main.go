// Command groupswipe is a terminal client for the GroupSwipe API.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/mmynk/groupswipe/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".groupswipe.json"
	}
	return filepath.Join(dir, "groupswipe", "session.json")
}

func run() error {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logging.Setup(level)

	app := &cli.Command{
		Name:  "groupswipe",
		Usage: "Swipe, match and chat as a group",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Value: "http://localhost:8080",
				Usage: "GroupSwipe API base URL",
			},
			&cli.StringFlag{
				Name:  "state",
				Value: defaultStatePath(),
				Usage: "File holding the signed-in session",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: registerAction,
			},
			{
				Name:  "login",
				Usage: "Sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: loginAction,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: logoutAction,
			},
			{
				Name:   "groups",
				Usage:  "List your groups",
				Action: groupsAction,
			},
			{
				Name:      "group",
				Usage:     "Show a group's members and matches",
				ArgsUsage: "<group-id>",
				Action:    groupAction,
			},
			{
				Name:      "activate",
				Usage:     "Make a group discoverable for the activation window",
				ArgsUsage: "<group-id>",
				Action:    activateAction,
			},
			{
				Name:      "deck",
				Usage:     "Show the swipe deck of a group",
				ArgsUsage: "<group-id>",
				Action:    deckAction,
			},
			{
				Name:      "swipe",
				Usage:     "Like or pass the next card of a group's deck",
				ArgsUsage: "<group-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pass", Usage: "Pass instead of like"},
					&cli.IntFlag{Name: "count", Value: 1, Usage: "Number of cards to swipe"},
				},
				Action: swipeAction,
			},
			{
				Name:   "matches",
				Usage:  "List your matches, most recent conversation first",
				Action: matchesAction,
			},
			{
				Name:      "chat",
				Usage:     "Show a match's conversation",
				ArgsUsage: "<match-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "follow", Aliases: []string{"f"}, Usage: "Keep printing new messages"},
					&cli.BoolFlag{Name: "all", Usage: "Load the whole history"},
				},
				Action: chatAction,
			},
			{
				Name:      "send",
				Usage:     "Send a message to a match",
				ArgsUsage: "<match-id> <text>",
				Action:    sendAction,
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}
