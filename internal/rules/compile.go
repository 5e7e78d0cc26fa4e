package rules

import (
	"errors"
	"regexp"
	"strings"

	"fjacquet/maint-report/internal/parsererror"
	"fjacquet/maint-report/internal/textutils"
)

// ErrEmptyKeyword is wrapped by a RuleError for keywords that normalize to nothing.
var ErrEmptyKeyword = errors.New("keyword is empty after normalization")

type predicate struct {
	source string
	re     *regexp.Regexp
}

type predicateSet []predicate

// match returns the source of the first predicate matching text.
func (ps predicateSet) match(text string) (string, bool) {
	for _, p := range ps {
		if p.re.MatchString(text) {
			return p.source, true
		}
	}
	return "", false
}

// CompiledRule is a rule whose predicates are ready to run against
// normalized text.
type CompiledRule struct {
	Category     string
	LeakFluid    bool
	RequiresLeak bool
	predicates   predicateSet
	exclude      predicateSet
}

// Match reports whether the normalized text satisfies the rule and returns
// the keyword or pattern that matched.
func (r CompiledRule) Match(text string) (string, bool) {
	source, ok := r.predicates.match(text)
	if !ok {
		return "", false
	}
	if _, vetoed := r.exclude.match(text); vetoed {
		return "", false
	}
	return source, true
}

// Compiled is an immutable, pre-compiled rule table. It is safe for
// concurrent use.
type Compiled struct {
	Version  int
	CatchAll string
	leak     predicateSet
	fluids   []CompiledRule
	general  []CompiledRule
	order    []string
}

// Compile validates the table and pre-compiles every predicate. An invalid
// pattern yields a *parsererror.RuleError.
func Compile(t Table) (*Compiled, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	leak, err := compilePredicates("leak markers", t.Leak.Keywords, t.Leak.Patterns)
	if err != nil {
		return nil, err
	}

	c := &Compiled{
		Version:  t.Version,
		CatchAll: t.CatchAll,
		leak:     leak,
		order:    t.Categories(),
	}

	for _, r := range t.Rules {
		preds, err := compilePredicates(r.Category, r.Keywords, r.Patterns)
		if err != nil {
			return nil, err
		}
		excl, err := compilePredicates(r.Category, r.Exclude, nil)
		if err != nil {
			return nil, err
		}

		cr := CompiledRule{
			Category:     r.Category,
			LeakFluid:    r.LeakFluid,
			RequiresLeak: r.RequiresLeak,
			predicates:   preds,
			exclude:      excl,
		}
		if r.LeakFluid {
			c.fluids = append(c.fluids, cr)
		} else {
			c.general = append(c.general, cr)
		}
	}

	return c, nil
}

// MustCompile is like Compile but panics on error. It is meant for the
// built-in table.
func MustCompile(t Table) *Compiled {
	c, err := Compile(t)
	if err != nil {
		panic(err)
	}
	return c
}

// LeakMarker returns the leak marker found in the normalized text, if any.
func (c *Compiled) LeakMarker(text string) (string, bool) {
	return c.leak.match(text)
}

// LeakRules returns the fluid rules of the leak disambiguation stage in
// evaluation order.
func (c *Compiled) LeakRules() []CompiledRule {
	return c.fluids
}

// GeneralRules returns the general scan rules in priority order; the
// catch-all, when configured, is last.
func (c *Compiled) GeneralRules() []CompiledRule {
	return c.general
}

// Categories returns every category of the table in priority order.
func (c *Compiled) Categories() []string {
	return append([]string(nil), c.order...)
}

// IsCatchAll reports whether category is the table's catch-all.
func (c *Compiled) IsCatchAll(category string) bool {
	return c.CatchAll != "" && textutils.Normalize(category) == textutils.Normalize(c.CatchAll)
}

func compilePredicates(category string, keywords, patterns []string) (predicateSet, error) {
	set := make(predicateSet, 0, len(keywords)+len(patterns))

	for _, kw := range keywords {
		re, err := CompileKeyword(kw)
		if err != nil {
			return nil, &parsererror.RuleError{Category: category, Pattern: kw, Err: err}
		}
		set = append(set, predicate{source: kw, re: re})
	}

	for _, p := range patterns {
		re, err := CompilePattern(p)
		if err != nil {
			return nil, &parsererror.RuleError{Category: category, Pattern: p, Err: err}
		}
		set = append(set, predicate{source: RegexPrefix + p, re: re})
	}

	return set, nil
}

// CompileKeyword builds the whole-word matcher of a literal keyword. An edge
// that is a word character is anchored on a word boundary; any other edge
// must touch whitespace or the end of the text.
func CompileKeyword(keyword string) (*regexp.Regexp, error) {
	n := textutils.Normalize(keyword)
	if n == "" {
		return nil, ErrEmptyKeyword
	}

	left, right := `(?:^|\s)`, `(?:$|\s)`
	if isWordByte(n[0]) {
		left = `\b`
	}
	if isWordByte(n[len(n)-1]) {
		right = `\b`
	}
	return regexp.Compile(left + regexp.QuoteMeta(n) + right)
}

// isWordByte matches the ASCII word characters recognized by \b.
func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// CompilePattern compiles a regular expression for normalized text. Patterns
// are matched case-insensitively.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.New("pattern is empty")
	}
	return regexp.Compile(`(?i)` + pattern)
}
