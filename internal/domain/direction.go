package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is a supported translation direction.
type Direction string

const (
	EnglishToRutooro Direction = "en-ttj"
	RutooroToEnglish Direction = "ttj-en"
)

// Language codes used in requests and dataset records.
const (
	LangEnglish = "en"
	LangRutooro = "ttj"
)

// ErrUnknownDirection is returned for directions other than en-ttj and ttj-en.
var ErrUnknownDirection = errors.New("unknown translation direction")

// Directions lists every supported direction.
var Directions = []Direction{EnglishToRutooro, RutooroToEnglish}

// model language tags (FLORES-200 style) expected by the seq2seq model.
var modelTags = map[string]string{
	LangEnglish: "eng_Latn",
	LangRutooro: "ttj_Latn",
}

// ParseDirection parses "en-ttj" or "ttj-en".
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case EnglishToRutooro, RutooroToEnglish:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// DirectionFor maps a language pair to a direction. Model tags such as
// eng_Latn are accepted as aliases of their language code.
func DirectionFor(source, target string) (Direction, error) {
	src, tgt := langCode(source), langCode(target)
	switch {
	case src == LangEnglish && tgt == LangRutooro:
		return EnglishToRutooro, nil
	case src == LangRutooro && tgt == LangEnglish:
		return RutooroToEnglish, nil
	}
	return "", fmt.Errorf("%w: %s→%s", ErrUnknownDirection, source, target)
}

// Languages returns the source and target language codes.
func (d Direction) Languages() (source, target string) {
	if d == RutooroToEnglish {
		return LangRutooro, LangEnglish
	}
	return LangEnglish, LangRutooro
}

// ModelTags returns the source and target tags passed to the model.
func (d Direction) ModelTags() (source, target string) {
	src, tgt := d.Languages()
	return modelTags[src], modelTags[tgt]
}

func langCode(s string) string {
	s = strings.TrimSpace(s)
	for code, tag := range modelTags {
		if strings.EqualFold(s, code) || strings.EqualFold(s, tag) {
			return code
		}
	}
	return s
}
