package models

const (
	// AllFavoritesList is the reserved list that always shows the whole favorites set.
	AllFavoritesList = "All Favorites"
)

var DefaultFavoriteLists = []string{AllFavoritesList, "My Breakfast", "Healthy", "Weekend Treat"}

// Slot keys used by the persistence boundary.
const (
	SlotCart           = "cart"
	SlotFavorites      = "favorites"
	SlotFavoriteLists  = "favorites_lists"
	SlotFavoriteAssign = "favorites_map"
)
