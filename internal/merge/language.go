package merge

import "strings"

// languageNames maps the ISO 639-1 and 639-3 codes the providers actually
// return to display names. Google Books sends two-letter codes, Open
// Library three-letter keys.
var languageNames = map[string]string{
	"en":  "English",
	"eng": "English",
	"it":  "Italian",
	"ita": "Italian",
	"de":  "German",
	"ger": "German",
	"deu": "German",
	"fr":  "French",
	"fre": "French",
	"fra": "French",
	"es":  "Spanish",
	"spa": "Spanish",
	"pt":  "Portuguese",
	"por": "Portuguese",
	"nl":  "Dutch",
	"dut": "Dutch",
	"nld": "Dutch",
	"sv":  "Swedish",
	"swe": "Swedish",
	"no":  "Norwegian",
	"nor": "Norwegian",
	"da":  "Danish",
	"dan": "Danish",
	"fi":  "Finnish",
	"fin": "Finnish",
	"ru":  "Russian",
	"rus": "Russian",
	"ja":  "Japanese",
	"jpn": "Japanese",
	"zh":  "Chinese",
	"chi": "Chinese",
	"zho": "Chinese",
	"el":  "Greek",
	"gre": "Greek",
	"ell": "Greek",
	"pl":  "Polish",
	"pol": "Polish",
	"cs":  "Czech",
	"cze": "Czech",
	"ces": "Czech",
	"tr":  "Turkish",
	"tur": "Turkish",
	"ar":  "Arabic",
	"ara": "Arabic",
	"he":  "Hebrew",
	"heb": "Hebrew",
	"hu":  "Hungarian",
	"hun": "Hungarian",
	"ko":  "Korean",
	"kor": "Korean",
}

// LanguageName maps a provider language code to its display name.
// Unknown codes pass through uppercased; already-readable display names
// (as stored by earlier revisions of the sheet) pass through unchanged.
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	if len(code) > 3 {
		// Not a code; assume it is already a display name.
		return code
	}
	return strings.ToUpper(code)
}
