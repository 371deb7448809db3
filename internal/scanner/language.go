package scanner

import (
	"strings"
)

// languageMap maps source file extensions to the language front end that
// understands them.
var languageMap = map[string]string{
	".py":  "python",
	".pyw": "python",
	".pyi": "python",
}

// DetectLanguage returns the language for a file extension, or "" if no front
// end handles it.
func DetectLanguage(ext string) string {
	return languageMap[strings.ToLower(ext)]
}
