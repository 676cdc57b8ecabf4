package normalize

import "strings"

// iso639_2to1 maps ISO 639-2 (3-letter) codes to the 2-letter codes the
// transcription service expects.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var iso639_2to1 = map[string]string{
	"eng": "en", "spa": "es", "fra": "fr", "deu": "de", "ita": "it",
	"por": "pt", "nld": "nl", "rus": "ru", "jpn": "ja", "zho": "zh",
	"kor": "ko", "ara": "ar", "hin": "hi", "pol": "pl", "swe": "sv",
	"nor": "no", "dan": "da", "fin": "fi", "tur": "tr", "ell": "el",
	"heb": "he", "ces": "cs", "hun": "hu", "ron": "ro", "ukr": "uk",
	"cat": "ca", "vie": "vi", "ind": "id", "tha": "th", "msa": "ms",
	// Bibliographic variants
	"ger": "de", "fre": "fr", "dut": "nl", "chi": "zh", "cze": "cs",
	"gre": "el", "rum": "ro", "may": "ms",
}

// languageNameToCode maps English language names to 2-letter codes.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var languageNameToCode = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"italian": "it", "portuguese": "pt", "dutch": "nl", "russian": "ru",
	"japanese": "ja", "chinese": "zh", "mandarin": "zh", "korean": "ko",
	"arabic": "ar", "hindi": "hi", "polish": "pl", "swedish": "sv",
	"norwegian": "no", "danish": "da", "finnish": "fi", "turkish": "tr",
	"greek": "el", "hebrew": "he", "czech": "cs", "hungarian": "hu",
	"romanian": "ro", "ukrainian": "uk", "catalan": "ca", "vietnamese": "vi",
	"indonesian": "id", "thai": "th", "malay": "ms",
}

// LanguageCode converts a language hint to the ISO 639-1 code used in
// transcription requests. It accepts 2-letter codes, 3-letter codes, locales
// ("en-US", "pt_BR") and English names ("English"). Unknown values yield "".
func LanguageCode(raw string) string {
	s := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "\x00", "")))
	if s == "" {
		return ""
	}

	if idx := strings.IndexAny(s, "-_"); idx > 0 {
		s = s[:idx]
	}

	switch len(s) {
	case 2:
		if isKnownCode(s) {
			return s
		}
	case 3:
		if code, ok := iso639_2to1[s]; ok {
			return code
		}
	}

	return languageNameToCode[s]
}

func isKnownCode(code string) bool {
	for _, c := range iso639_2to1 {
		if c == code {
			return true
		}
	}
	return false
}
