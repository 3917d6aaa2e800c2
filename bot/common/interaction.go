package common

import (
	"context"

	"riobot/domain/entities"
)

// Member is a user as seen in a command or interaction
type Member struct {
	ID        int64
	Name      string
	AvatarURL string
}

// Command is a parsed text command
type Command struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	Author    Member
	// Name is lower-cased, without the prefix
	Name string
	Args []string
	// Rest is the raw text following the command name
	Rest        string
	Mentions    []Member
	RoleIDs     []int64
	Permissions int64
}

// FirstMention returns the first mentioned member
func (c *Command) FirstMention() (Member, bool) {
	if len(c.Mentions) == 0 {
		return Member{}, false
	}
	return c.Mentions[0], true
}

// Can reports whether the author holds a permission bit
func (c *Command) Can(perm int64) bool {
	return c.Permissions&perm == perm
}

// Interaction is a decoded button press or modal submission
type Interaction struct {
	GuildID     int64
	ChannelID   int64
	MessageID   int64
	User        Member
	RoleIDs     []int64
	Permissions int64
	Action      Action
	// Values holds modal inputs keyed by field id
	Values map[string]string
}

// ModalField is a single-line text input
type ModalField struct {
	CustomID    string
	Label       string
	Placeholder string
	MinLength   int
	MaxLength   int
}

// Modal is a form opened in response to a button
type Modal struct {
	Action Action
	Title  string
	Fields []ModalField
}

// Reply is how a handler answers a command or interaction
type Reply struct {
	Message   entities.MessageSpec
	Ephemeral bool
	// Update edits the message carrying the pressed button instead of replying
	Update bool
	// FollowUp is posted publicly after the response
	FollowUp *entities.MessageSpec
	// Modal opens a form instead of replying
	Modal *Modal
	// DeleteSource removes the invoking command message
	DeleteSource bool
	// Silent sends nothing back
	Silent bool
}

// Text builds a plain reply
func Text(content string) *Reply {
	return &Reply{Message: entities.MessageSpec{Content: content}}
}

// Ephemeral builds a reply only the invoking member sees
func Ephemeral(content string) *Reply {
	return &Reply{Message: entities.MessageSpec{Content: content}, Ephemeral: true}
}

// Embed builds a reply with one embed
func Embed(embed entities.EmbedSpec) *Reply {
	return &Reply{Message: entities.MessageSpec{Embeds: []entities.EmbedSpec{embed}}}
}

// ErrorReply turns an error into the member-facing reply
func ErrorReply(err error) *Reply {
	return Ephemeral(UserMessageFor(err))
}

// NameResolver looks up how a member is displayed in a guild
type NameResolver interface {
	DisplayName(ctx context.Context, guildID, userID int64) string
}
