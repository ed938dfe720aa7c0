package catalog

import "slices"

// Fallback tables shown when the content service cannot be reached. They are
// never modified; the accessors hand out copies.

var fallbackProducts = []Product{
	{
		ID:          "1",
		Name:        "Panel Listrik Industrial",
		Description: "Panel listrik berkualitas tinggi untuk kebutuhan industrial",
		Category:    "Panel",
		Price:       2500000,
		ImageURL:    "https://images.unsplash.com/photo-1544724569-5f546fd6f2b5",
		InStock:     true,
	},
	{
		ID:          "2",
		Name:        "Kabel Power Grade A",
		Description: "Kabel power premium dengan sertifikasi internasional",
		Category:    "Kabel",
		Price:       150000,
		ImageURL:    "https://images.unsplash.com/photo-1685537711270-a11c23592f8f",
		InStock:     true,
	},
	{
		ID:          "3",
		Name:        "Switch Industrial",
		Description: "Switch tahan cuaca untuk aplikasi outdoor",
		Category:    "Switch",
		Price:       350000,
		ImageURL:    "https://images.unsplash.com/photo-1552772588-12592fc15a64",
		InStock:     true,
	},
}

var fallbackRentalItems = []RentalItem{
	{
		ID:          "1",
		Name:        "Generator 10KVA",
		Description: "Generator portable untuk kebutuhan darurat",
		DailyRate:   250000,
		ImageURL:    "https://images.unsplash.com/photo-1544724569-5f546fd6f2b5",
		Available:   true,
	},
	{
		ID:          "2",
		Name:        "Welding Machine",
		Description: "Mesin las profesional untuk proyek konstruksi",
		DailyRate:   150000,
		ImageURL:    "https://images.unsplash.com/photo-1685537711270-a11c23592f8f",
		Available:   true,
	},
}

var fallbackArticles = []Article{
	{
		ID:        "1",
		Title:     "Tips Memilih Panel Listrik yang Tepat",
		Excerpt:   "Panduan lengkap memilih panel listrik sesuai kebutuhan rumah dan kantor Anda",
		ImageURL:  "https://images.unsplash.com/photo-1544724569-5f546fd6f2b5",
		Author:    "Tim Teskom",
		CreatedAt: "2024-01-15",
	},
	{
		ID:        "2",
		Title:     "Maintenance Sistem Elektrikal Preventif",
		Excerpt:   "Pentingnya maintenance berkala untuk mencegah kerusakan sistem elektrikal",
		ImageURL:  "https://images.unsplash.com/photo-1685537711270-a11c23592f8f",
		Author:    "Tim Teskom",
		CreatedAt: "2024-01-10",
	},
	{
		ID:        "3",
		Title:     "Tren Teknologi Elektrikal 2024",
		Excerpt:   "Perkembangan terbaru dalam teknologi elektrikal dan dampaknya bagi industri",
		ImageURL:  "https://images.unsplash.com/photo-1552772588-12592fc15a64",
		Author:    "Tim Teskom",
		CreatedAt: "2024-01-05",
	},
}

func FallbackProducts() []Product {
	return slices.Clone(fallbackProducts)
}

func FallbackRentalItems() []RentalItem {
	return slices.Clone(fallbackRentalItems)
}

func FallbackArticles() []Article {
	return slices.Clone(fallbackArticles)
}
