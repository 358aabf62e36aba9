package highlight

import (
	"github.com/dlclark/regexp2"
)

// Patterns for each classification pass. They use .NET regex syntax; the
// number pattern relies on look-behind so a digit run glued to the end of
// an identifier is not treated as a number.
const (
	wordPattern         = `[a-zA-Z_][a-zA-Z0-9_]*`
	numberPattern       = `\w*(?<![\w])[-]?[0-9]*\.?[0-9]+`
	stringPattern       = `"([^"]*)"`
	lineCommentPattern  = `--.*`
	blockCommentPattern = `(?s)-{3,}(.*?)-{3,}`
)

// Keywords are the Jinx reserved words.
var Keywords = []string{
	"import", "library", "is", "not", "and", "or", "null", "number", "integer", "boolean", "string", "external",
	"collection", "as", "increment", "decrement", "by", "if", "else", "begin", "end", "over", "until", "set", "coroutine",
	"loop", "from", "to", "while", "function", "return", "break", "type", "wait", "public", "private", "readonly",
}

// Values are the Jinx literal words.
var Values = []string{"true", "false", "null"}

// pass is one pattern applied over the whole window.
type pass struct {
	pattern *regexp2.Regexp

	// category is painted onto every match, unless word is set.
	category Category

	// word maps a matched word to its category (Default skips the match).
	word func(s string) Category
}

// Classifier assigns highlight categories to Jinx source text.
// A Classifier holds no per-call state and may be reused.
type Classifier struct {
	keywords map[string]struct{}
	values   map[string]struct{}
	passes   []pass
}

// NewClassifier returns a classifier for the Jinx keyword and value sets.
func NewClassifier() *Classifier {
	return NewClassifierWithWords(Keywords, Values)
}

// NewClassifierWithWords returns a classifier using the given keyword and
// value word sets. A word in both sets is classified as a keyword.
func NewClassifierWithWords(keywords, values []string) *Classifier {
	c := &Classifier{
		keywords: wordSet(keywords),
		values:   wordSet(values),
	}
	c.passes = []pass{
		{pattern: mustCompile(wordPattern), word: c.classifyWord},
		{pattern: mustCompile(numberPattern), category: Value},
		{pattern: mustCompile(stringPattern), category: Value},
		{pattern: mustCompile(lineCommentPattern), category: Comment},
		{pattern: mustCompile(blockCommentPattern), category: Comment},
	}
	return c
}

// Classify returns the highlight spans for text.
//
// The result is sorted by Start, spans never overlap, adjacent runs of the
// same category are merged, and plain text produces no span. Offsets are
// rune offsets within text.
func (c *Classifier) Classify(text string) []Span {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	cats := make([]Category, len(runes))
	c.run(runes, func(start, length int, cat Category) {
		for i := start; i < start+length; i++ {
			cats[i] = cat
		}
	})
	return resolve(cats)
}

// run applies each pass in order and reports every painted match.
func (c *Classifier) run(runes []rune, paint func(start, length int, cat Category)) {
	for _, p := range c.passes {
		m, err := p.pattern.FindRunesMatch(runes)
		for m != nil && err == nil {
			cat := p.category
			if p.word != nil {
				cat = p.word(m.String())
			}
			if cat != Default && m.Length > 0 {
				paint(m.Index, m.Length, cat)
			}
			m, err = p.pattern.FindNextMatch(m)
		}
	}
}

// classifyWord returns the category for an identifier-shaped word.
func (c *Classifier) classifyWord(s string) Category {
	if _, ok := c.keywords[s]; ok {
		return Keyword
	}
	if _, ok := c.values[s]; ok {
		return Value
	}
	return Default
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func mustCompile(pattern string) *regexp2.Regexp {
	return regexp2.MustCompile(pattern, regexp2.None)
}
