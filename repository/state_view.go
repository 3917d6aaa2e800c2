package repository

import (
	"sort"

	"riobot/domain/entities"
)

// stateView reads the live document; the store holds docMu.RLock while it is used
type stateView struct {
	doc *entities.StateDocument
}

func (v *stateView) Version() int64 { return v.doc.Version }

func (v *stateView) User(userID int64) (*entities.UserAccount, bool) {
	u, ok := v.doc.Users[userID]
	return u.Clone(), ok
}

func (v *stateView) Users() []*entities.UserAccount {
	out := make([]*entities.UserAccount, 0, len(v.doc.Users))
	for _, u := range v.doc.Users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (v *stateView) VoiceChannel(channelID int64) (*entities.VoiceChannel, bool) {
	c, ok := v.doc.VoiceChannels[channelID]
	return c.Clone(), ok
}

func (v *stateView) VoiceChannels() []*entities.VoiceChannel {
	out := make([]*entities.VoiceChannel, 0, len(v.doc.VoiceChannels))
	for _, c := range v.doc.VoiceChannels {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

func (v *stateView) Ticket(channelID int64) (*entities.SupportTicket, bool) {
	t, ok := v.doc.Tickets[channelID]
	return t.Clone(), ok
}

func (v *stateView) Tickets() []*entities.SupportTicket {
	out := make([]*entities.SupportTicket, 0, len(v.doc.Tickets))
	for _, t := range v.doc.Tickets {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

func (v *stateView) WelcomeClaim(targetUserID int64) (*entities.WelcomeClaim, bool) {
	w, ok := v.doc.WelcomeClaims[targetUserID]
	return w.Clone(), ok
}

func (v *stateView) WelcomeClaims() []*entities.WelcomeClaim {
	out := make([]*entities.WelcomeClaim, 0, len(v.doc.WelcomeClaims))
	for _, w := range v.doc.WelcomeClaims {
		out = append(out, w.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetUserID < out[j].TargetUserID })
	return out
}

func (v *stateView) Drop(messageID int64) (*entities.CurrencyDrop, bool) {
	d, ok := v.doc.Drops[messageID]
	return d.Clone(), ok
}

func (v *stateView) Drops() []*entities.CurrencyDrop {
	out := make([]*entities.CurrencyDrop, 0, len(v.doc.Drops))
	for _, d := range v.doc.Drops {
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageID < out[j].MessageID })
	return out
}

func (v *stateView) Panel(guildID int64, kind entities.PanelKind) (*entities.PanelArtifact, bool) {
	p, ok := v.doc.Panels[entities.PanelRef(guildID, kind)]
	return p.Clone(), ok
}

func (v *stateView) Panels() []*entities.PanelArtifact {
	out := make([]*entities.PanelArtifact, 0, len(v.doc.Panels))
	for _, p := range v.doc.Panels {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GuildID != out[j].GuildID {
			return out[i].GuildID < out[j].GuildID
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func (v *stateView) Warns(subjectID int64) (*entities.WarnLedger, bool) {
	l, ok := v.doc.Warns[subjectID]
	return l.Clone(), ok
}
