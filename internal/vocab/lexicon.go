package vocab

// Language identifies a target language of the translation table.
type Language string

// Supported target languages.
const (
	French  Language = "french"
	Spanish Language = "spanish"
	German  Language = "german"
	Italian Language = "italian"
)

// Special tokens shared by every output vocabulary.
const (
	StartToken = "<START>"
	EndToken   = "<END>"
	PadToken   = "<PAD>"
)

// entry is one source word with its fixed translation per language.
type entry struct {
	word         string
	translations map[Language]string
}

func tr(fr, es, de, it string) map[Language]string {
	return map[Language]string{French: fr, Spanish: es, German: de, Italian: it}
}

// lexicon is the English source vocabulary. Order is stable and used for listings.
var lexicon = []entry{
	{"we", tr("nous", "nosotros", "wir", "noi")},
	{"are", tr("sommes", "somos", "sind", "siamo")},
	{"best", tr("meilleurs", "mejores", "beste", "migliori")},
	{"i", tr("je", "yo", "ich", "io")},
	{"am", tr("suis", "soy", "bin", "sono")},
	{"you", tr("tu", "tú", "du", "tu")},
	{"is", tr("est", "es", "ist", "è")},
	{"he", tr("il", "él", "er", "lui")},
	{"she", tr("elle", "ella", "sie", "lei")},
	{"they", tr("ils", "ellos", "sie", "loro")},
	{"the", tr("le", "el", "der", "il")},
	{"a", tr("un", "un", "ein", "un")},
	{"cat", tr("chat", "gato", "Katze", "gatto")},
	{"dog", tr("chien", "perro", "Hund", "cane")},
	{"love", tr("aime", "amo", "liebe", "amo")},
	{"eat", tr("mange", "como", "esse", "mangio")},
	{"read", tr("lis", "leo", "lese", "leggo")},
	{"learn", tr("apprenons", "aprendemos", "lernen", "impariamo")},
	{"hello", tr("bonjour", "hola", "hallo", "ciao")},
	{"world", tr("monde", "mundo", "Welt", "mondo")},
	{"good", tr("bon", "bueno", "gut", "buono")},
	{"morning", tr("matin", "mañana", "Morgen", "mattina")},
	{"happy", tr("heureux", "feliz", "glücklich", "felice")},
	{"friend", tr("ami", "amigo", "Freund", "amico")},
	{"friends", tr("amis", "amigos", "Freunde", "amici")},
	{"house", tr("maison", "casa", "Haus", "casa")},
	{"big", tr("grand", "grande", "groß", "grande")},
	{"small", tr("petit", "pequeño", "klein", "piccolo")},
	{"red", tr("rouge", "rojo", "rot", "rosso")},
	{"book", tr("livre", "libro", "Buch", "libro")},
	{"students", tr("étudiants", "estudiantes", "Studenten", "studenti")},
	{"today", tr("aujourd'hui", "hoy", "heute", "oggi")},
	{"and", tr("et", "y", "und", "e")},
	{"very", tr("très", "muy", "sehr", "molto")},
}

// functionWords are the common words appended to every output vocabulary.
var functionWords = map[Language][]string{
	French:  {"de", "la", "les", "à", "en"},
	Spanish: {"de", "la", "los", "a", "en"},
	German:  {"die", "das", "zu", "mit", "von"},
	Italian: {"di", "la", "gli", "a", "con"},
}

var languages = []Language{French, Spanish, German, Italian}
