package textkit

// stopwords is the curated short function-word set, two languages
// data, not logic; checked independently of the token length filter
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// english
		"the", "and", "for", "with", "that", "this", "you", "your", "are", "not",
		"have", "has", "but", "was", "were", "from", "http", "https", "com", "www",
		"into", "out", "our", "his", "her", "him", "she", "they", "them", "their",
		"about", "over", "under", "after", "before", "then", "than", "can", "could",
		"would", "should", "will", "just", "like", "one", "two", "three", "four",
		"five", "six", "seven", "eight", "nine", "ten", "there", "here", "what",
		"when", "where", "who", "why", "how", "all", "any", "both", "each", "few",
		"more", "most", "other", "some", "such", "nor", "only", "own", "same",
		"too", "very",
		// russian
		"и", "в", "во", "не", "что", "он", "на", "я", "с", "со", "как", "а", "то",
		"все", "она", "так", "его", "но", "да", "ты", "к", "у", "же", "вы", "за",
		"бы", "по", "ее", "мне", "есть", "нет", "их", "из", "мы", "мой", "моя",
		"моё", "мои", "твой", "твоя", "твоё", "твои", "наш", "наша", "наше",
		"наши", "ваш", "ваша", "ваше", "ваши", "кто", "оно", "они", "быть",
		"если", "или", "ли", "для", "до", "после", "при", "ок", "наверное", "ну",
		"ага", "давай", "ещё", "еще",
	} {
		stopwords[w] = struct{}{}
	}
}
