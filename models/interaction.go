// Package models, Interaction: a structured command invocation.
//
// The platform (or a client) posts a slash-style command to the add-on:
//
//	{ "command": "infraction", "subcommand": "issue",
//	  "options": { "user": "u1", "reason": "spam" }, "locale": "en" }
//
// Option values are already validated for shape by the caller; role, user and
// channel options are plain ids. ActorID and ServerID are never taken from the
// body; the handler fills them from the token and the URL.
package models

// Interaction, an inbound command request.
type Interaction struct {
	Command    string            `json:"command"`
	Subcommand string            `json:"subcommand,omitempty"`
	Options    map[string]string `json:"options"`
	Locale     string            `json:"locale,omitempty"`

	ActorID  string `json:"-"`
	ServerID string `json:"-"`
}

// Option, returns a named option or "" when absent.
func (i *Interaction) Option(name string) string {
	if i.Options == nil {
		return ""
	}
	return i.Options[name]
}

// Name, "command" or "command subcommand".
func (i *Interaction) Name() string {
	if i.Subcommand == "" {
		return i.Command
	}
	return i.Command + " " + i.Subcommand
}

// Reply, the single response of a handled interaction.
//
// Ephemeral replies are shown only to the actor. Every rejection is ephemeral
// so moderation details never leak into the channel.
type Reply struct {
	Content   string `json:"content"`
	Ephemeral bool   `json:"ephemeral"`
}
