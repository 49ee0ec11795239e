package model

import "time"

// PredefinedScenarios 是内置的角色扮演场景清单。
var PredefinedScenarios = []Scenario{
	{
		ID:             "coffee-shop",
		Title:          "Ordering Coffee",
		Description:    "Order your favorite drink with specific customizations.",
		Emoji:          "☕",
		AIRole:         "Barista",
		UserRole:       "Customer",
		Difficulty:     DifficultyBeginner,
		InitialMessage: "Hi! Welcome to Bean & Brew. What can I get started for you today?",
	},
	{
		ID:             "job-interview",
		Title:          "Job Interview",
		Description:    "Answer common questions for a professional role.",
		Emoji:          "💼",
		AIRole:         "Hiring Manager",
		UserRole:       "Candidate",
		Difficulty:     DifficultyAdvanced,
		InitialMessage: "Good morning. Thank you for coming. Could you tell me a little about yourself?",
	},
	{
		ID:             "airport-checkin",
		Title:          "Airport Check-in",
		Description:    "Check in for a flight and ask about luggage.",
		Emoji:          "✈️",
		AIRole:         "Airline Agent",
		UserRole:       "Traveler",
		Difficulty:     DifficultyIntermediate,
		InitialMessage: "Hello! May I see your passport and ticket, please?",
	},
	{
		ID:             "hotel-complaint",
		Title:          "Hotel Complaint",
		Description:    "Politely complain about a noisy room.",
		Emoji:          "🔔",
		AIRole:         "Receptionist",
		UserRole:       "Guest",
		Difficulty:     DifficultyIntermediate,
		InitialMessage: "Good evening. How can I help you, sir/madam?",
	},
	{
		ID:             "making-friends",
		Title:          "Making Friends",
		Description:    "Casual chat with a stranger at a park.",
		Emoji:          "🌳",
		AIRole:         "Friendly Stranger",
		UserRole:       "You",
		Difficulty:     DifficultyBeginner,
		InitialMessage: "Beautiful weather today, isn't it? Do you come here often?",
	},
	{
		ID:             "doctor-visit",
		Title:          "Seeing a Doctor",
		Description:    "Describe your symptoms and ask for advice.",
		Emoji:          "🩺",
		AIRole:         "Doctor",
		UserRole:       "Patient",
		Difficulty:     DifficultyIntermediate,
		InitialMessage: "Hello. I see you're not feeling well today. What seems to be the problem?",
	},
	{
		ID:             "shopping-clothes",
		Title:          "Buying Clothes",
		Description:    "Ask for sizes and try on different items.",
		Emoji:          "👕",
		AIRole:         "Shop Assistant",
		UserRole:       "Shopper",
		Difficulty:     DifficultyBeginner,
		InitialMessage: "Hi there! Let me know if you need help finding a specific size.",
	},
	{
		ID:             "asking-directions",
		Title:          "Asking Directions",
		Description:    "You are lost. Ask a local for help.",
		Emoji:          "🗺️",
		AIRole:         "Local Resident",
		UserRole:       "Tourist",
		Difficulty:     DifficultyBeginner,
		InitialMessage: "Excuse me? You look a bit lost. Can I help you find something?",
	},
	{
		ID:             "restaurant-order",
		Title:          "Dinner Reservation",
		Description:    "Book a table and ask about the menu.",
		Emoji:          "🍽️",
		AIRole:         "Host",
		UserRole:       "Customer",
		Difficulty:     DifficultyIntermediate,
		InitialMessage: "Good evening, welcome to La Luna. Do you have a reservation?",
	},
	{
		ID:             "rent-apartment",
		Title:          "Renting a Flat",
		Description:    "Ask a landlord about rent, utilities, and rules.",
		Emoji:          "🏠",
		AIRole:         "Landlord",
		UserRole:       "Tenant",
		Difficulty:     DifficultyAdvanced,
		InitialMessage: "Hi! Thanks for coming to view the apartment. What do you think of the space?",
	},
	{
		ID:             "grocery-store",
		Title:          "Supermarket",
		Description:    "Checkout groceries and ask for a bag.",
		Emoji:          "🛒",
		AIRole:         "Cashier",
		UserRole:       "Customer",
		Difficulty:     DifficultyBeginner,
		InitialMessage: "Hello! Did you find everything you were looking for today?",
	},
	{
		ID:             "tech-support",
		Title:          "IT Support",
		Description:    "Explain a problem with your laptop.",
		Emoji:          "💻",
		AIRole:         "Tech Support",
		UserRole:       "User",
		Difficulty:     DifficultyIntermediate,
		InitialMessage: "Tech Support, this is Sarah. What issue are you experiencing with your device?",
	},
	{
		ID:             "haircut",
		Title:          "Getting a Haircut",
		Description:    "Explain the hairstyle you want.",
		Emoji:          "✂️",
		AIRole:         "Barber",
		UserRole:       "Customer",
		Difficulty:     DifficultyIntermediate,
		InitialMessage: "Hey! Take a seat. What are we doing with your hair today?",
	},
	{
		ID:             "refund-item",
		Title:          "Returning Item",
		Description:    "Return a defective product for a refund.",
		Emoji:          "📦",
		AIRole:         "Customer Service",
		UserRole:       "Customer",
		Difficulty:     DifficultyAdvanced,
		InitialMessage: "Customer Service. Do you have your receipt with you?",
	},
	{
		ID:             "taxi-ride",
		Title:          "Taxi Ride",
		Description:    "Give directions and chat with the driver.",
		Emoji:          "🚖",
		AIRole:         "Driver",
		UserRole:       "Passenger",
		Difficulty:     DifficultyBeginner,
		InitialMessage: "Hop in! Where are we heading to today?",
	},
}

// FindPredefinedScenario 按 id 查找内置场景。
func FindPredefinedScenario(id string) (Scenario, bool) {
	for _, s := range PredefinedScenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// SeedVocabulary 返回新用户词汇本的种子条目。
// 每次调用返回独立副本，避免共享底层切片。
func SeedVocabulary() []VocabularyWord {
	return []VocabularyWord{
		{
			ID:         "seed-latte",
			Word:       "Latte",
			Definition: "A type of coffee made with espresso and hot steamed milk.",
			Context:    "I would like a large latte, please.",
			AddedAt:    time.Now().UnixMilli(),
			WordEnrichment: WordEnrichment{
				Phonetic:           "/ˈlɑː.teɪ/",
				PartOfSpeech:       "n.",
				ChineseDefinition:  "拿铁咖啡",
				ExampleSentence:    "She ordered a skinny latte with no sugar.",
				ExampleTranslation: "她点了一杯不加糖的脱脂拿铁。",
				Synonyms:           []string{"coffee", "espresso", "brew"},
				Roots:              "From Italian \"caffè latte\" (milk coffee).",
			},
		},
	}
}
