package command

import (
	"strings"

	"github.com/keshon/hola-music/pkg/logger"
)

// DefaultLinkPrefixes are the message starts treated as a request to play a link.
var DefaultLinkPrefixes = []string{
	"https://www.youtube.com/",
	"https://youtube.com/",
	"https://music.youtube.com/",
	"https://youtu.be/",
	"https://open.spotify.com/",
}

// Dispatcher maps message text onto registered commands. Prefixed commands match exactly
// unless they take arguments; a message starting with a known link runs the link command.
type Dispatcher struct {
	prefix       string
	registry     *Registry
	link         Command
	linkPrefixes []string
}

func NewDispatcher(prefix string, registry *Registry, link Command) *Dispatcher {
	return &Dispatcher{
		prefix:       prefix,
		registry:     registry,
		link:         link,
		linkPrefixes: DefaultLinkPrefixes,
	}
}

// Match returns the command for content and its argument text.
func (d *Dispatcher) Match(content string) (Command, string, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, "", false
	}

	if d.link != nil {
		for _, p := range d.linkPrefixes {
			if strings.HasPrefix(content, p) {
				return d.link, content, true
			}
		}
	}

	if !strings.HasPrefix(content, d.prefix) {
		return nil, "", false
	}
	name, args, _ := strings.Cut(content[len(d.prefix):], " ")
	args = strings.TrimSpace(args)

	cmd, ok := d.registry.GetCommand(name)
	if !ok {
		return nil, "", false
	}
	if args != "" && !acceptsArgs(cmd) {
		return nil, "", false
	}
	return cmd, args, true
}

// Dispatch runs the command matching content. Command errors are answered with a
// user-facing message; the return value reports whether anything matched.
func (d *Dispatcher) Dispatch(ctx *MessageContext, content string) bool {
	cmd, args, ok := d.Match(content)
	if !ok {
		return false
	}
	ctx.Command = cmd.Name()
	ctx.Args = args

	if err := cmd.Run(ctx); err != nil {
		if rerr := ctx.Respond(UserMessage(err)); rerr != nil {
			l := logger.Component("command")
			l.Warn().Err(rerr).Str("command", cmd.Name()).Msg("Failed to send reply")
		}
	}
	return true
}
