package entities

// ShopItem is a purchasable inventory entry
type ShopItem struct {
	ID          string
	Name        string
	Description string
	Price       int64
}

// ShopCatalog is the fixed item list, in display order
var ShopCatalog = []ShopItem{
	{ID: "badge_bronze", Name: "Badge Bronze", Description: "Un badge bronze sur ton profil", Price: 100},
	{ID: "badge_silver", Name: "Badge Argent", Description: "Un badge argent sur ton profil", Price: 500},
	{ID: "badge_gold", Name: "Badge Or", Description: "Un badge or sur ton profil", Price: 2000},
	{ID: "vip_pass", Name: "Pass VIP", Description: "Accès au salon VIP", Price: 5000},
}

// FindShopItem looks an item up by id
func FindShopItem(id string) (ShopItem, bool) {
	for _, item := range ShopCatalog {
		if item.ID == id {
			return item, true
		}
	}
	return ShopItem{}, false
}
