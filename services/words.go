package services

// Built-in vocabulary bank for Word Clash rounds: English words with Hebrew
// translations and a simple example sentence, split by difficulty tier.

type vocabEntry struct {
	English  string
	Hebrew   string
	Sentence string
}

var easyWords = []vocabEntry{
	{"cat", "חתול", "The cat is sleeping on the bed."},
	{"dog", "כלב", "My dog likes to play in the park."},
	{"apple", "תפוח", "I eat an apple every morning."},
	{"water", "מים", "Please give me a glass of water."},
	{"house", "בית", "We live in a big house."},
	{"book", "ספר", "This book is about animals."},
	{"sun", "שמש", "The sun is very hot today."},
	{"ball", "כדור", "The children play with a red ball."},
	{"milk", "חלב", "I drink milk with my cookies."},
	{"tree", "עץ", "There is a tall tree in the garden."},
	{"fish", "דג", "The fish swims in the water."},
	{"bread", "לחם", "Mom buys fresh bread every day."},
}

var mediumWords = []vocabEntry{
	{"teacher", "מורה", "Our teacher gives us homework every week."},
	{"morning", "בוקר", "I wake up early in the morning."},
	{"kitchen", "מטבח", "Dad is cooking dinner in the kitchen."},
	{"window", "חלון", "Please open the window, it is hot here."},
	{"weather", "מזג אוויר", "The weather is cold and rainy today."},
	{"holiday", "חופשה", "We went to the beach on our holiday."},
	{"library", "ספרייה", "I borrow books from the school library."},
	{"breakfast", "ארוחת בוקר", "She eats breakfast before school."},
	{"bicycle", "אופניים", "He rides his bicycle to school."},
	{"garden", "גינה", "Grandma grows tomatoes in her garden."},
	{"airplane", "מטוס", "The airplane flies above the clouds."},
	{"winter", "חורף", "It sometimes snows in the winter."},
}

var hardWords = []vocabEntry{
	{"adventure", "הרפתקה", "Reading this story feels like a real adventure."},
	{"delicious", "טעים", "The chocolate cake was absolutely delicious."},
	{"neighbor", "שכן", "Our neighbor waters our plants when we travel."},
	{"important", "חשוב", "It is important to brush your teeth every day."},
	{"celebrate", "לחגוג", "We celebrate my birthday with a big party."},
	{"dangerous", "מסוכן", "Crossing the street without looking is dangerous."},
	{"beautiful", "יפה", "The sunset over the sea was beautiful."},
	{"understand", "להבין", "I finally understand this math exercise."},
	{"vegetable", "ירק", "A cucumber is a green vegetable."},
	{"tomorrow", "מחר", "We have a big test tomorrow."},
	{"different", "שונה", "Every snowflake is different from the others."},
	{"remember", "לזכור", "I always remember my grandmother's stories."},
}

func wordsForDifficulty(d string) []vocabEntry {
	switch d {
	case "medium":
		return mediumWords
	case "hard":
		return hardWords
	default:
		return easyWords
	}
}
