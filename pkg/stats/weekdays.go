package stats

import (
	"time"

	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var weekdayNames = map[language.Tag][7]string{
	language.English: {
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	},
	language.BrazilianPortuguese: {
		"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado",
	},
}

// weekdayNamesFor picks the closest supported locale for a BCP 47 tag such
// as "pt-BR" or "en_US". Unparseable input falls back to English.
func weekdayNamesFor(locale string) [7]string {
	tag, err := language.Parse(locale)
	if err != nil {
		return weekdayNames[language.English]
	}
	_, index, _ := localeMatcher.Match(tag)
	return weekdayNames[supportedLocales[index]]
}

func weekdayName(names [7]string, d time.Weekday) string {
	return names[int(d)]
}
