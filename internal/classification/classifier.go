// Package classification maps contract filenames to document types.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/model"
)

// Supported document extensions, lower-case with the leading dot.
const (
	ExtDOCX = ".docx"
	ExtDOC  = ".doc"
	ExtPDF  = ".pdf"
)

// Rule maps a filename pattern to a document type.
type Rule struct {
	Name     string
	DocType  model.DocType
	Regex    string
	Priority int // Higher priority rules are checked first
}

// CompiledRule holds a compiled regex with its rule.
type CompiledRule struct {
	compiledRegex *regexp.Regexp
	Rule
}

// Classifier classifies files by filename using ordered rules. The zero value
// is not usable; construct it with NewClassifier or Default.
type Classifier struct {
	rules []CompiledRule
}

// separatorReplacer lets phrase rules such as "ugovor o održavanju" match
// names written as "Ugovor_o_održavanju".
var separatorReplacer = strings.NewReplacer("_", " ", "-", " ")

// NewClassifier compiles rules and sorts them by priority, highest first.
// Rules with equal priority keep their given order.
func NewClassifier(rules []Rule) (*Classifier, error) {
	compiled := make([]CompiledRule, 0, len(rules))

	for _, r := range rules {
		regexStr := r.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}

		re, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule %s: %w", r.Name, err)
		}
		if !r.DocType.Valid() {
			return nil, fmt.Errorf("rule %s: invalid document type %q", r.Name, r.DocType)
		}

		compiled = append(compiled, CompiledRule{
			Rule:          r,
			compiledRegex: re,
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &Classifier{rules: compiled}, nil
}

var defaultClassifier = mustDefault()

func mustDefault() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the classifier built from DefaultRules.
func Default() *Classifier {
	return defaultClassifier
}

// IsSupportedExtension reports whether ext (with dot, any case) is a
// document format the pipeline reads.
func IsSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ExtDOCX, ExtDOC, ExtPDF:
		return true
	}
	return false
}

// Classify returns the document type of a file. ext must include the dot.
func (c *Classifier) Classify(filename, ext string) model.DocType {
	if !IsSupportedExtension(ext) {
		return model.DocIrrelevant
	}

	name := separatorReplacer.Replace(common.NFC(strings.ToLower(filename)))

	for _, r := range c.rules {
		if r.compiledRegex.MatchString(name) {
			return r.DocType
		}
	}

	// Unlabelled PDFs are usually scans or loose attachments.
	if strings.EqualFold(ext, ExtPDF) {
		return model.DocIrrelevant
	}

	// Office documents are assumed to carry contractual content.
	return model.DocOtherContract
}

// RuleCount returns the number of loaded rules.
func (c *Classifier) RuleCount() int {
	return len(c.rules)
}
