package catalog

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"

	"github.com/chrisdamba/besteats/internal/models"
)

var dishes = map[string][]string{
	"burger":    {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger", "Double Smash Burger"},
	"pizza":     {"Margherita", "Pepperoni", "Hawaiian", "Veggie Supreme", "Four Cheese"},
	"salad":     {"Caesar Salad", "Greek Salad", "Cobb Salad", "Quinoa Salad", "Tabbouleh"},
	"chicken":   {"Grilled Chicken", "Chicken Wings", "Chicken Tikka", "Fried Chicken Bucket", "Chicken Shawarma"},
	"breakfast": {"Pancake Stack", "Eggs Benedict", "Foul Medames", "French Toast", "Cheese Manakish"},
	"sweets":    {"Baklava", "Kunafa", "Chocolate Lava Cake", "Tiramisu", "Mango Sticky Rice"},
}

// Categories produced by the demo factory, in display order.
var DemoCategories = []string{"burger", "pizza", "salad", "chicken", "breakfast", "sweets"}

// Factory generates a demo menu. The same seed always yields the same menu.
type Factory struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewFactory(seed int64) *Factory {
	return &Factory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (f *Factory) CreateMenuItem(id int64, category string) models.CatalogItem {
	names := dishes[category]
	name := "Special of the Day"
	if len(names) > 0 {
		name = names[f.rng.Intn(len(names))]
	}
	price := decimal.NewFromFloat(f.fake.Float64(2, 5, 40)).Round(2)

	return models.CatalogItem{
		ID:          id,
		Name:        name,
		Description: f.fake.Lorem().Sentence(10),
		Price:       price,
		Category:    category,
		Popular:     f.rng.Float64() < 0.3,
		New:         f.rng.Float64() < 0.15,
		Image:       fmt.Sprintf("/images/%s-%d.jpg", category, id),
	}
}

// Generate builds n items with ids 1..n, cycling through DemoCategories.
func (f *Factory) Generate(n int) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, n)
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		items = append(items, f.CreateMenuItem(id, DemoCategories[i%len(DemoCategories)]))
	}
	return items
}
