package bot

import (
	"context"

	"riobot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// unknownName is shown when a member cannot be resolved
const unknownName = "Inconnu"

// nameResolver resolves display names through the session state, falling
// back to the REST API
type nameResolver struct {
	session *discordgo.Session
}

// NewNameResolver creates a resolver backed by the session
func NewNameResolver(s *discordgo.Session) common.NameResolver {
	return &nameResolver{session: s}
}

// DisplayName returns the server nickname of a user, falling back to the
// global name and then the username
func (r *nameResolver) DisplayName(ctx context.Context, guildID, userID int64) string {
	gid, uid := common.FormatID(guildID), common.FormatID(userID)

	if r.session.State != nil {
		if member, err := r.session.State.Member(gid, uid); err == nil {
			return memberName(member, member.User)
		}
	}

	member, err := r.session.GuildMember(gid, uid, discordgo.WithContext(ctx))
	if err == nil && member != nil {
		return memberName(member, member.User)
	}

	// Fallback to just getting the user
	user, err := r.session.User(uid, discordgo.WithContext(ctx))
	if err == nil && user != nil {
		return memberName(nil, user)
	}
	return unknownName
}

// memberName picks nickname, then global name, then username
func memberName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil {
		return unknownName
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// toMember converts a gateway user, with its guild membership when known
func toMember(user *discordgo.User, member *discordgo.Member) common.Member {
	if user == nil && member != nil {
		user = member.User
	}
	if user == nil {
		return common.Member{}
	}
	return common.Member{
		ID:        common.ParseID(user.ID),
		Name:      memberName(member, user),
		AvatarURL: user.AvatarURL("256"),
	}
}

// roleIDs converts the role snowflakes of a member
func roleIDs(member *discordgo.Member) []int64 {
	if member == nil {
		return nil
	}
	ids := make([]int64, 0, len(member.Roles))
	for _, r := range member.Roles {
		if id := common.ParseID(r); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
