package economy

import (
	"context"
	"testing"
	"time"

	"riobot/bot/common"
	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/services"
	"riobot/domain/testhelpers"
	"riobot/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFeature(t *testing.T) (*Feature, interfaces.StateStore) {
	t.Helper()
	store, err := repository.NewStateStore(context.Background(), repository.NewMemoryPersister(nil), &testhelpers.EventRecorder{})
	require.NoError(t, err)
	cfg := config.NewTestConfig()
	f := New(cfg, services.NewEconomyService(cfg, store))
	f.now = func() time.Time { return testNow }
	return f, store
}

func seed(t *testing.T, store interfaces.StateStore, userID, xp, currency int64) {
	t.Helper()
	require.NoError(t, store.Mutate(context.Background(), []entities.Key{entities.UserKey(userID)}, func(tx interfaces.StateTx) error {
		u := tx.User(userID)
		u.XP = xp
		u.Level = entities.LevelOf(xp).Level
		u.Currency = currency
		tx.PutUser(u)
		return nil
	}))
}

func balance(t *testing.T, store interfaces.StateStore, userID int64) int64 {
	t.Helper()
	var currency int64
	require.NoError(t, store.View(context.Background(), func(v interfaces.StateView) error {
		if u, ok := v.User(userID); ok {
			currency = u.Currency
		}
		return nil
	}))
	return currency
}

func command(authorID int64, args []string, mentions ...common.Member) *common.Command {
	return &common.Command{Author: common.Member{ID: authorID, Name: "auteur"}, Args: args, Mentions: mentions}
}

func TestRewardMessageLevelUp(t *testing.T) {
	t.Parallel()
	f, store := newFeature(t)
	seed(t, store, 1, 90, 0)

	msg, err := f.RewardMessage(context.Background(), common.Member{ID: 1, AvatarURL: "https://cdn/a.png"})
	require.NoError(t, err)
	require.NotNil(t, msg)
	embed := msg.Embeds[0]
	assert.Equal(t, "🎊 Niveau supérieur !", embed.Title)
	assert.Equal(t, "Félicitations <@1> ! Tu es maintenant **niveau 2** !", embed.Description)
	assert.Equal(t, "+20 rios", embed.Fields[0].Value)

	// second message inside the cooldown is not rewarded
	msg, err = f.RewardMessage(context.Background(), common.Member{ID: 1})
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, int64(20), balance(t, store, 1))
}

func TestRewardMessageWithoutLevelUp(t *testing.T) {
	t.Parallel()
	f, _ := newFeature(t)

	msg, err := f.RewardMessage(context.Background(), common.Member{ID: 1})
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestHandleDaily(t *testing.T) {
	t.Parallel()
	f, store := newFeature(t)

	first := f.HandleDaily(context.Background(), command(1, nil))
	assert.Equal(t, "🎁 Tu as récupéré ta récompense quotidienne de **100 rios** ! Solde : **100 rios**.", first.Message.Content)

	second := f.HandleDaily(context.Background(), command(1, nil))
	assert.Equal(t, "⏳ Tu as déjà récupéré ta récompense quotidienne. Reviens dans **24h 00min**.", second.Message.Content)
	assert.Equal(t, int64(100), balance(t, store, 1))
}

func TestHandleWork(t *testing.T) {
	t.Parallel()
	f, store := newFeature(t)

	first := f.HandleWork(context.Background(), command(1, nil))
	assert.Contains(t, first.Message.Content, "💼 Tu as travaillé et gagné")
	earned := balance(t, store, 1)
	assert.GreaterOrEqual(t, earned, int64(20))
	assert.LessOrEqual(t, earned, int64(60))

	second := f.HandleWork(context.Background(), command(1, nil))
	assert.Contains(t, second.Message.Content, "⏳ Tu es fatigué")
}

func TestHandlePay(t *testing.T) {
	t.Parallel()

	target := common.Member{ID: 2, Name: "cible"}
	tests := []struct {
		name        string
		args        []string
		mentions    []common.Member
		want        string
		wantPayer   int64
		wantPayee   int64
		startAmount int64
	}{
		{"success", []string{"<@2>", "30"}, []common.Member{target}, "✅ <@1> a donné **30 rios** à <@2> !", 20, 30, 50},
		{"insufficient", []string{"<@2>", "80"}, []common.Member{target}, "❌ Tu n'as pas assez de rios.", 50, 0, 50},
		{"missing mention", []string{"30"}, nil, "❌ Usage: `!pay @utilisateur <montant>`", 50, 0, 50},
		{"bad amount", []string{"<@2>", "-4"}, []common.Member{target}, "❌ Le montant doit être un nombre positif.", 50, 0, 50},
		{"self", []string{"<@1>", "10"}, []common.Member{{ID: 1}}, "❌ Tu ne peux pas te payer toi-même.", 50, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, store := newFeature(t)
			seed(t, store, 1, 0, tt.startAmount)

			reply := f.HandlePay(context.Background(), command(1, tt.args, tt.mentions...))
			assert.Equal(t, tt.want, reply.Message.Content)
			assert.Equal(t, tt.wantPayer, balance(t, store, 1))
			assert.Equal(t, tt.wantPayee, balance(t, store, 2))
		})
	}
}

func TestHandleBuy(t *testing.T) {
	t.Parallel()
	f, store := newFeature(t)
	seed(t, store, 1, 0, 150)

	bought := f.HandleBuy(context.Background(), command(1, []string{"badge_bronze"}))
	assert.Equal(t, "✅ Tu as acheté **Badge Bronze** pour **100 rios** ! Solde : **50 rios**.", bought.Message.Content)

	owned := f.HandleBuy(context.Background(), command(1, []string{"badge_bronze"}))
	assert.Equal(t, "❌ Tu possèdes déjà cet objet.", owned.Message.Content)

	poor := f.HandleBuy(context.Background(), command(1, []string{"badge_silver"}))
	assert.Equal(t, "❌ Tu n'as pas assez de rios.", poor.Message.Content)

	unknown := f.HandleBuy(context.Background(), command(1, []string{"dragon"}))
	assert.Equal(t, "❌ Cet objet n'existe pas dans la boutique.", unknown.Message.Content)

	assert.Equal(t, int64(50), balance(t, store, 1))
}

func TestHandleShopListsCatalog(t *testing.T) {
	t.Parallel()
	f, _ := newFeature(t)

	reply := f.HandleShop(context.Background(), command(1, nil))
	require.Len(t, reply.Message.Embeds, 1)
	assert.Len(t, reply.Message.Embeds[0].Fields, len(entities.ShopCatalog))
	assert.Equal(t, "Badge Bronze (100 rios)", reply.Message.Embeds[0].Fields[0].Name)
}
