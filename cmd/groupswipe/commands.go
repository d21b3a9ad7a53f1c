package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mmynk/groupswipe/internal/chat"
	"github.com/mmynk/groupswipe/internal/client"
	"github.com/mmynk/groupswipe/internal/deck"
	"github.com/mmynk/groupswipe/internal/matchlist"
	"github.com/mmynk/groupswipe/internal/session"
	"github.com/mmynk/groupswipe/pkg/api"
)

func registerAction(ctx context.Context, c *cli.Command) error {
	s, err := session.Register(ctx, newClient(c), c.String("email"), c.String("username"), c.String("password"))
	if err != nil {
		return err
	}
	if err := persist(c, s); err != nil {
		return err
	}
	user, _ := s.User()
	fmt.Printf("Welcome, %s!\n", user.Username)
	return nil
}

func loginAction(ctx context.Context, c *cli.Command) error {
	s, err := session.SignIn(ctx, newClient(c), c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	if err := persist(c, s); err != nil {
		return err
	}
	user, _ := s.User()
	groups, _ := s.Groups()
	fmt.Printf("Signed in as %s (%d groups)\n", user.Username, len(groups))
	return nil
}

func logoutAction(ctx context.Context, c *cli.Command) error {
	if err := os.Remove(c.String("state")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	fmt.Println("Signed out")
	return nil
}

func groupsAction(ctx context.Context, c *cli.Command) error {
	_, s, err := resume(ctx, c)
	if err != nil {
		return err
	}
	groups, err := s.Groups()
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("You are not in any group yet")
		return nil
	}

	now := time.Now()
	for _, g := range groups {
		status := "inactive"
		if until := time.UnixMilli(g.ActiveUntil); g.IsActive && until.After(now) {
			status = "active for " + until.Sub(now).Round(time.Minute).String()
		}
		fmt.Printf("%s  %-24s %d members  %s\n", g.ID, g.Name, g.MemberCount, status)
	}
	return nil
}

func groupAction(ctx context.Context, c *cli.Command) error {
	groupID := c.Args().First()
	if groupID == "" {
		return errors.New("group id is required")
	}
	cl, _, err := resume(ctx, c)
	if err != nil {
		return err
	}
	group, err := cl.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	fmt.Println(group.Name)
	if group.Bio != "" {
		fmt.Println(group.Bio)
	}
	fmt.Println()
	for _, m := range group.Members {
		fmt.Printf("  %s\n", m.Username)
	}
	fmt.Println()
	if len(group.Matches) == 0 {
		fmt.Println("No matches for this group yet.")
		return nil
	}
	for _, m := range group.Matches {
		fmt.Printf("%6d  Chat with %s\n", m.MatchID, m.OtherGroup.Name)
	}
	return nil
}

func activateAction(ctx context.Context, c *cli.Command) error {
	groupID := c.Args().First()
	if groupID == "" {
		return errors.New("group id is required")
	}
	cl, _, err := resume(ctx, c)
	if err != nil {
		return err
	}
	group, err := cl.ActivateGroup(ctx, groupID)
	if err != nil {
		return err
	}
	fmt.Printf("%s is active until %s\n", group.Name, time.UnixMilli(group.ActiveUntil).Format(time.Kitchen))
	return nil
}

func deckAction(ctx context.Context, c *cli.Command) error {
	groupID := c.Args().First()
	if groupID == "" {
		return errors.New("group id is required")
	}
	cl, _, err := resume(ctx, c)
	if err != nil {
		return err
	}

	cards, err := deck.LoadFeed(ctx, cl, groupID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	for i, card := range cards {
		tag := ""
		if card.Filler {
			tag = " (sample)"
		}
		fmt.Printf("%2d. %s%s - %s\n", i+1, card.Name, tag, card.Bio)
	}
	return nil
}

func swipeAction(ctx context.Context, c *cli.Command) error {
	groupID := c.Args().First()
	if groupID == "" {
		return errors.New("group id is required")
	}
	cl, _, err := resume(ctx, c)
	if err != nil {
		return err
	}

	d, err := deck.Load(ctx, cl, groupID, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	liked := !c.Bool("pass")
	for range int(c.Int("count")) {
		if _, ok := d.Current(); !ok {
			fmt.Println("No more groups. Check back later!")
			return nil
		}
		res, err := d.Swipe(ctx, liked)
		if err != nil {
			return err
		}

		verb := "Passed"
		if liked {
			verb = "Liked"
		}
		fmt.Printf("%s %s\n", verb, res.Card.Name)

		if res.MatchErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", res.MatchErr)
		}
		if res.Outcome.Matched {
			if res.Outcome.Created {
				fmt.Println("It's a Match! You and the other group have liked each other.")
			}
			fmt.Printf("Chat with them: groupswipe chat %d\n", res.Outcome.MatchID)
			return nil
		}
	}
	return nil
}

func matchesAction(ctx context.Context, c *cli.Command) error {
	cl, _, err := resume(ctx, c)
	if err != nil {
		return err
	}
	entries, err := matchlist.Load(ctx, cl)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No matches yet. Keep swiping!")
		return nil
	}

	now := time.Now()
	for _, e := range entries {
		fmt.Printf("#%-5d %-24s %-10s %s\n", e.MatchID, e.OtherGroup.Name, matchlist.FormatTimestamp(e.LastMessageAt, now), e.Preview)
	}
	return nil
}

func chatAction(ctx context.Context, c *cli.Command) error {
	matchID, err := parseMatchID(c.Args().First())
	if err != nil {
		return err
	}
	cl, s, err := resume(ctx, c)
	if err != nil {
		return err
	}
	user, err := s.User()
	if err != nil {
		return err
	}

	sess, err := chat.Open(ctx, cl, matchID, user.ID, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	if c.Bool("all") {
		for !sess.AllLoaded() {
			if _, err := sess.LoadMore(ctx); err != nil {
				return err
			}
		}
	}

	fmt.Println(chatTitle(ctx, cl, s, matchID))
	printed := make(map[int64]bool)
	printNew := func() {
		msgs := sess.Messages()
		for _, m := range slices.Backward(msgs) {
			if m.Pending || printed[m.ID] {
				continue
			}
			printed[m.ID] = true
			printMessage(m.Message, user.ID)
		}
	}
	printNew()

	if !c.Bool("follow") {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	updates := make(chan struct{}, 1)
	sess.OnChange(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			printNew()
		}
	}
}

func sendAction(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) < 2 {
		return errors.New("usage: groupswipe send <match-id> <text>")
	}
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	cl, s, err := resume(ctx, c)
	if err != nil {
		return err
	}
	user, err := s.User()
	if err != nil {
		return err
	}

	sess, err := chat.Open(ctx, cl, matchID, user.ID, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	msg, err := sess.Send(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	printMessage(msg, user.ID)
	return nil
}

func parseMatchID(arg string) (int64, error) {
	if arg == "" {
		return 0, errors.New("match id is required")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid match id %q", arg)
	}
	return id, nil
}

// chatTitle names the counterpart group of the match.
func chatTitle(ctx context.Context, cl *client.Client, s *session.Session, matchID int64) string {
	details, err := cl.MatchDetails(ctx, matchID)
	if err != nil {
		return fmt.Sprintf("Chat #%d", matchID)
	}
	other := details.Group1
	if _, mine := s.Group(details.Group1.ID); mine {
		other = details.Group2
	}
	return "Chat with " + other.Name
}

func printMessage(m api.Message, userID string) {
	name := m.Sender.Username
	if m.SenderID == userID {
		name = "You"
	}
	ts := matchlist.FormatTimestamp(time.UnixMilli(m.SentAt), time.Now())
	fmt.Printf("[%s] %s: %s\n", ts, name, m.Content)
}
