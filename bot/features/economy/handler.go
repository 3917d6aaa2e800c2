package economy

import (
	"context"
	"fmt"
	"strconv"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/utils"

	log "github.com/sirupsen/logrus"
)

// RewardMessage grants the message XP and returns the level-up announcement,
// if any
func (f *Feature) RewardMessage(ctx context.Context, author common.Member) (*entities.MessageSpec, error) {
	result, err := f.economy.RewardMessage(ctx, author.ID, f.now())
	if err != nil {
		return nil, err
	}
	if !result.Rewarded || !result.LeveledUp {
		return nil, nil
	}

	log.WithFields(log.Fields{
		"userId": author.ID,
		"level":  result.NewLevel,
		"reward": result.CurrencyReward,
	}).Info("Member leveled up")
	return &entities.MessageSpec{
		Embeds: []entities.EmbedSpec{levelUpEmbed(author, result.NewLevel, result.CurrencyReward, f.now())},
	}, nil
}

// HandleDaily pays the daily reward once per cooldown
func (f *Feature) HandleDaily(ctx context.Context, cmd *common.Command) *common.Reply {
	result, err := f.economy.ClaimDaily(ctx, cmd.Author.ID, f.now())
	if err != nil {
		log.WithError(err).WithField("userId", cmd.Author.ID).Error("Failed to claim daily reward")
		return common.ErrorReply(err)
	}
	if !result.Granted {
		return common.Text(fmt.Sprintf("⏳ Tu as déjà récupéré ta récompense quotidienne. Reviens dans **%s**.", utils.FormatRemaining(result.Remaining)))
	}
	return common.Text(fmt.Sprintf("🎁 Tu as récupéré ta récompense quotidienne de **%s** ! Solde : **%s**.",
		utils.FormatRios(result.Amount), utils.FormatRios(result.Balance)))
}

// HandleWork pays a random amount once per work window
func (f *Feature) HandleWork(ctx context.Context, cmd *common.Command) *common.Reply {
	result, err := f.economy.Work(ctx, cmd.Author.ID, f.now())
	if err != nil {
		log.WithError(err).WithField("userId", cmd.Author.ID).Error("Failed to work")
		return common.ErrorReply(err)
	}
	if !result.Granted {
		return common.Text(fmt.Sprintf("⏳ Tu es fatigué ! Reviens travailler dans **%s**.", utils.FormatRemaining(result.Remaining)))
	}
	return common.Text(fmt.Sprintf("💼 Tu as travaillé et gagné **%s** ! Solde : **%s**.",
		utils.FormatRios(result.Amount), utils.FormatRios(result.Balance)))
}

// HandlePay moves currency from the author to the mentioned member
func (f *Feature) HandlePay(ctx context.Context, cmd *common.Command) *common.Reply {
	const usage = "❌ Usage: `!pay @utilisateur <montant>`"

	target, ok := cmd.FirstMention()
	if !ok || len(cmd.Args) < 2 {
		return common.Text(usage)
	}
	amount, err := strconv.ParseInt(cmd.Args[len(cmd.Args)-1], 10, 64)
	if err != nil || amount <= 0 {
		return common.Text("❌ Le montant doit être un nombre positif.")
	}
	if target.ID == cmd.Author.ID {
		return common.Text("❌ Tu ne peux pas te payer toi-même.")
	}

	if err := f.economy.Transfer(ctx, cmd.Author.ID, target.ID, amount); err != nil {
		if !common.IsUserError(err) {
			log.WithError(err).WithFields(log.Fields{
				"fromUserId": cmd.Author.ID,
				"toUserId":   target.ID,
				"amount":     amount,
			}).Error("Failed to transfer currency")
		}
		return common.ErrorReply(err)
	}
	return common.Text(fmt.Sprintf("✅ %s a donné **%s** à %s !",
		common.Mention(cmd.Author.ID), utils.FormatRios(amount), common.Mention(target.ID)))
}

// HandleShop lists the catalog
func (f *Feature) HandleShop(ctx context.Context, cmd *common.Command) *common.Reply {
	return common.Embed(shopEmbed(f.now()))
}

// HandleBuy purchases a catalog item
func (f *Feature) HandleBuy(ctx context.Context, cmd *common.Command) *common.Reply {
	if len(cmd.Args) == 0 {
		return common.Text("❌ Usage: `!buy <objet>` (voir `!shop`)")
	}
	itemID := cmd.Args[0]
	item, ok := entities.FindShopItem(itemID)
	if !ok {
		return common.ErrorReply(entities.ErrUnknownItem)
	}

	account, err := f.economy.BuyItem(ctx, cmd.Author.ID, item.ID)
	if err != nil {
		if !common.IsUserError(err) {
			log.WithError(err).WithFields(log.Fields{
				"userId": cmd.Author.ID,
				"item":   item.ID,
			}).Error("Failed to buy item")
		}
		return common.ErrorReply(err)
	}
	return common.Text(fmt.Sprintf("✅ Tu as acheté **%s** pour **%s** ! Solde : **%s**.",
		item.Name, utils.FormatRios(item.Price), utils.FormatRios(account.Currency)))
}
