package retrieve

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Language carries the word lists the retriever depends on. The defaults
// reproduce the Portuguese-plus-English lists the scoring was tuned with;
// a YAML file can replace them without touching the scoring itself.
type Language struct {
	Stopwords []string            `yaml:"stopwords"`
	Synonyms  map[string][]string `yaml:"synonyms"`

	stopset map[string]bool
}

// DefaultLanguage returns the built-in word lists.
func DefaultLanguage() Language {
	lang := Language{
		Stopwords: []string{
			"o", "a", "os", "as", "um", "uma", "uns", "umas", "de", "do", "da", "dos", "das",
			"em", "no", "na", "nos", "nas", "por", "para", "com", "sem", "sob", "sobre",
			"e", "ou", "mas", "que", "porque", "quando", "onde", "como", "qual", "quais",
			"é", "são", "foi", "eram", "ao", "aos", "à", "às", "pelo", "pela", "pelos", "pelas",
			"este", "esta", "estes", "estas", "esse", "essa", "esses", "essas", "aquele", "aquela",
			"the", "is", "are", "was", "were", "in", "on", "at", "to", "for", "of", "and", "or",
		},
		Synonyms: map[string][]string{
			"fala":     {"fala", "trata", "aborda", "discute", "explica"},
			"conteúdo": {"conteúdo", "assunto", "tema", "tópico"},
			"capítulo": {"capítulo", "capitulo", "seção", "secao", "parte"},
		},
	}
	lang.index()
	return lang
}

// LoadLanguage reads word lists from a YAML file. Missing sections fall
// back to the defaults, so a file may override just the synonyms.
func LoadLanguage(path string) (Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Language{}, fmt.Errorf("read language file: %w", err)
	}

	var loaded Language
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Language{}, fmt.Errorf("parse language file: %w", err)
	}

	lang := DefaultLanguage()
	if len(loaded.Stopwords) > 0 {
		lang.Stopwords = loaded.Stopwords
	}
	if len(loaded.Synonyms) > 0 {
		lang.Synonyms = loaded.Synonyms
	}
	lang.index()
	return lang, nil
}

func (l *Language) index() {
	l.stopset = make(map[string]bool, len(l.Stopwords))
	for _, w := range l.Stopwords {
		l.stopset[w] = true
	}
}

func (l Language) isStopword(w string) bool {
	return l.stopset[w]
}
