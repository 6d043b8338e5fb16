// Package models, Notice: the formatted message mirrored into moderation channels.
//
// A notice is built once per action and delivered to every configured
// destination (action channel, log channel, live feed, audit mail).
// Rendering is done here so every sink shows the same text.
package models

import "strings"

// NoticeColor, accent color of a notice (#RRGGBB).
type NoticeColor string

const (
	NoticeColorGreen NoticeColor = "#57F287"
	NoticeColorRed   NoticeColor = "#ED4245"
)

// NoticeKind, which action produced the notice. Doubles as the live feed op.
type NoticeKind string

const (
	NoticeInfractionIssued  NoticeKind = "infraction_create"
	NoticeInfractionRevoked NoticeKind = "infraction_revoke"
	NoticePromotionIssued   NoticeKind = "promotion_create"
)

// NoticeTarget, bit flags selecting the channel destinations of a notice.
//
// Which destinations are used is a per-command decision:
// issue/promote → TargetAction|TargetLog, revoke → TargetLog only.
type NoticeTarget uint8

const (
	TargetAction NoticeTarget = 1 << iota
	TargetLog
)

// Has, reports whether t includes target.
func (t NoticeTarget) Has(target NoticeTarget) bool {
	return t&target != 0
}

// NoticeField, one labelled row of a notice.
type NoticeField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Notice, a structured moderation notice.
type Notice struct {
	Kind   NoticeKind    `json:"kind"`
	Title  string        `json:"title"`
	Color  NoticeColor   `json:"color"`
	Fields []NoticeField `json:"fields"`
}

// AddField, appends a row and returns the notice for chaining.
func (n *Notice) AddField(name, value string) *Notice {
	n.Fields = append(n.Fields, NoticeField{Name: name, Value: value})
	return n
}

// Field, returns the value of the first field with the given name.
func (n *Notice) Field(name string) (string, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Render, formats the notice as a chat message body.
//
//	**🚨 Infraction Issued**
//	**User:** <@123>
//	**Reason:** spam
//	**Case ID:** 0a1b2c3d4e
func (n *Notice) Render() string {
	var b strings.Builder
	b.WriteString("**")
	b.WriteString(n.Title)
	b.WriteString("**")
	for _, f := range n.Fields {
		b.WriteString("\n**")
		b.WriteString(f.Name)
		b.WriteString(":** ")
		b.WriteString(f.Value)
	}
	return b.String()
}

// ─── Mention helpers ───
//
// Same mention syntax the platform's client renders.

// UserMention, "<@id>".
func UserMention(id string) string { return "<@" + id + ">" }

// RoleMention, "<@&id>".
func RoleMention(id string) string { return "<@&" + id + ">" }

// ChannelMention, "<#id>".
func ChannelMention(id string) string { return "<#" + id + ">" }
