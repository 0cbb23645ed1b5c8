package domain

import "time"

// MenuItem is a dish or drink offered on the digital menu
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SampleMenu is the menu loaded by the seed endpoint
func SampleMenu() []MenuItem {
	return []MenuItem{
		{Name: "Nasi Goreng Spesial", Description: "Nasi goreng dengan telur mata sapi, ayam suwir, dan kerupuk", Price: 28000, Category: "Makanan", Available: true},
		{Name: "Mie Ayam Bakso", Description: "Mie ayam dengan bakso sapi dan pangsit goreng", Price: 25000, Category: "Makanan", Available: true},
		{Name: "Nasi Rames Komplit", Description: "Nasi dengan ayam bakar, tempe, tahu, dan sambal", Price: 30000, Category: "Makanan", Available: true},
		{Name: "Soto Ayam", Description: "Soto ayam dengan suwiran ayam dan telur rebus", Price: 22000, Category: "Makanan", Available: true},
		{Name: "Gado-Gado", Description: "Sayuran segar dengan bumbu kacang dan kerupuk", Price: 18000, Category: "Makanan", Available: true},
		{Name: "Es Teh Manis", Description: "Teh manis dingin segar", Price: 5000, Category: "Minuman", Available: true},
		{Name: "Es Jeruk", Description: "Jeruk segar dengan es batu", Price: 8000, Category: "Minuman", Available: true},
		{Name: "Kopi Hitam", Description: "Kopi hitam panas atau dingin", Price: 6000, Category: "Minuman", Available: true},
		{Name: "Jus Alpukat", Description: "Jus alpukat segar dengan susu dan madu", Price: 15000, Category: "Minuman", Available: true},
		{Name: "Teh Botol", Description: "Teh botol siap minum", Price: 7000, Category: "Minuman", Available: true},
		{Name: "Pisang Goreng", Description: "Pisang goreng crispy dengan madu", Price: 12000, Category: "Cemilan", Available: true},
		{Name: "Tahu Isi", Description: "Tahu goreng dengan sayuran segar", Price: 8000, Category: "Cemilan", Available: true},
		{Name: "Risol Mayo", Description: "Risol dengan mayones dan daging asap", Price: 10000, Category: "Cemilan", Available: true},
		{Name: "Kentang Goreng", Description: "Kentang goreng dengan saus sambal", Price: 15000, Category: "Cemilan", Available: true},
		{Name: "Bakwan Sayur", Description: "Bakwan sayuran segar", Price: 6000, Category: "Cemilan", Available: true},
	}
}
