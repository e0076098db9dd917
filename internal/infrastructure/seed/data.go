package seed

import "github.com/avatarctic/petpal/internal/core/domain/directory"

func ptr[T any](v T) *T { return &v }

// SampleProviders returns fresh copies of the bundled directory listings.
// Ratings are in tenths of a star.
func SampleProviders() []*directory.Provider {
	return []*directory.Provider{
		{
			Name:         "Amsterdam Pet Clinic",
			Category:     "Veterinarian",
			Address:      "Herengracht 123, 1015",
			City:         "Amsterdam",
			Phone:        ptr("+31 20 123 4567"),
			OpeningHours: ptr("09:00 - 18:00"),
			Description:  ptr("Full-service veterinary clinic in central Amsterdam"),
			Rating:       ptr(45),
			ReviewCount:  48,
			ImageURL:     ptr("https://images.unsplash.com/photo-1595776613215-fe04b78de7d0"),
		},
		{
			Name:         "Pawsome Grooming",
			Category:     "Pet Groomer",
			Address:      "Prinsengracht 456, 1016",
			City:         "Amsterdam",
			Phone:        ptr("+31 20 456 7890"),
			OpeningHours: ptr("10:00 - 17:00"),
			Description:  ptr("Professional grooming services for dogs and cats"),
			Rating:       ptr(40),
			ReviewCount:  32,
			ImageURL:     ptr("https://images.unsplash.com/photo-1581888227599-779811939961"),
		},
		{
			Name:         "Vondelpark Dog Run",
			Category:     "Dog Park",
			Address:      "Vondelpark, 1071",
			City:         "Amsterdam",
			OpeningHours: ptr("Open 24 hours"),
			Description:  ptr("Large off-leash area for dogs in Amsterdam's famous park"),
			Rating:       ptr(49),
			ReviewCount:  87,
			ImageURL:     ptr("https://images.unsplash.com/photo-1541599484646-3a8705171833"),
		},
		{
			Name:         "Dublin Veterinary Hospital",
			Category:     "Veterinarian",
			Address:      "O'Connell Street 45, D01",
			City:         "Dublin",
			Phone:        ptr("+353 1 234 5678"),
			OpeningHours: ptr("08:30 - 19:00"),
			Description:  ptr("Comprehensive veterinary care for all pets"),
			Rating:       ptr(47),
			ReviewCount:  63,
			ImageURL:     ptr("https://images.unsplash.com/photo-1532938911079-1b06ac7ceec7"),
		},
		{
			Name:         "Calgary Pet Supply",
			Category:     "Pet Shop",
			Address:      "17 Avenue SW 450, T2S",
			City:         "Calgary",
			Phone:        ptr("+1 403 123 4567"),
			OpeningHours: ptr("10:00 - 20:00"),
			Description:  ptr("Premium pet food and supplies for all animals"),
			Rating:       ptr(43),
			ReviewCount:  51,
			ImageURL:     ptr("https://images.unsplash.com/photo-1583337130417-3346a1be7dee"),
		},
	}
}

func SampleCityInfo() []*directory.CityInfo {
	return []*directory.CityInfo{
		{
			City:     "Amsterdam",
			Category: "Pet Regulations",
			Title:    "Dog Leash Laws in Amsterdam",
			Content:  "Dogs must be kept on a leash in most public areas of Amsterdam, including streets and parks. There are designated off-leash areas in some parks like Vondelpark.",
			Source:   ptr("City of Amsterdam Official Website"),
			ImageURL: ptr("https://images.unsplash.com/photo-1625489238848-71d0df1f2899"),
		},
		{
			City:     "Amsterdam",
			Category: "Pet-Friendly Spaces",
			Title:    "Amsterdam Dog Parks Guide",
			Content:  "Amsterdam has several dog-friendly parks with designated off-leash areas. The most popular include Vondelpark, Westerpark, and Amstelpark.",
			Source:   ptr("Amsterdam Tourist Board"),
			ImageURL: ptr("https://images.unsplash.com/photo-1625489238848-71d0df1f2899"),
		},
		{
			City:     "Dublin",
			Category: "Pet Healthcare",
			Title:    "Veterinary Services in Dublin",
			Content:  "Dublin offers numerous veterinary clinics and emergency pet hospitals throughout the city. Most are open Monday through Saturday with emergency services available 24/7.",
			Source:   ptr("Dublin Pet Owners Association"),
			ImageURL: ptr("https://images.unsplash.com/photo-1584863231364-2edc166de576"),
		},
		{
			City:     "Calgary",
			Category: "Pet Regulations",
			Title:    "Pet Licensing in Calgary",
			Content:  "All dogs and cats over 3 months of age must be licensed in Calgary. Licenses can be obtained online through the City of Calgary website or at any registry office.",
			Source:   ptr("City of Calgary Animal Services"),
			ImageURL: ptr("https://images.unsplash.com/photo-1548199973-03cce0bbc87b"),
		},
	}
}
