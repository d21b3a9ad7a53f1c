package service

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	inviteAdjectives = []string{
		"BOLD", "BRAVE", "CALM", "CLEVER", "COSY", "EAGER", "FANCY", "GENTLE",
		"HAPPY", "JOLLY", "LUCKY", "MIGHTY", "NOBLE", "QUICK", "SUNNY", "WILD",
	}
	inviteNouns = []string{
		"BEAR", "CRANE", "EAGLE", "FOX", "HAWK", "LION", "LYNX", "OTTER",
		"OWL", "PANDA", "RAVEN", "SEAL", "TIGER", "WHALE", "WOLF", "YAK",
	}
)

// newInviteCode returns a code shaped like BOLD-FOX-42.
func newInviteCode() string {
	return fmt.Sprintf("%s-%s-%02d",
		inviteAdjectives[rand.IntN(len(inviteAdjectives))],
		inviteNouns[rand.IntN(len(inviteNouns))],
		rand.IntN(100),
	)
}

// normalizeInviteCode accepts codes typed in any case with stray spaces.
func normalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
