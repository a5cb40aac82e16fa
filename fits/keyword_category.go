package fits

import "strings"

// KeywordCategory is a set of keyword categories.
type KeywordCategory int

// Keyword categories. Keywords ending with "n" in the lists below match any
// numbered keyword, such as NAXIS1 or TTYPE12.
const (
	// Mandatory keywords describe the structure of the HDU.
	Mandatory KeywordCategory = 1 << iota
	// Reserved keywords have a meaning defined by the FITS standard.
	Reserved
	// Comment keywords are COMMENT and HISTORY.
	Comment
	// User keywords are all the others.
	User

	NoCategories  KeywordCategory = 0
	AllCategories                 = Mandatory | Reserved | Comment | User
)

var mandatoryKeywords = []string{
	"SIMPLE", "BITPIX", "NAXIS", "NAXISn", "END", "XTENSION", "PCOUNT", "GCOUNT", "EXTEND",
}

var reservedKeywords = []string{
	"AUTHOR", "BLANK", "BLOCKED", "BSCALE", "BUNIT", "BZERO", "CDELTn", "CROTAn", "CRPIXn",
	"CRVALn", "CTYPEn", "DATAMAX", "DATAMIN", "DATE", "DATE-OBS", "EPOCH", "EQUINOX", "EXTLEVEL",
	"EXTNAME", "EXTVER", "GROUPS", "INSTRUME", "OBJECT", "OBSERVER", "ORIGIN", "PSCALn", "PTYPEn",
	"PZEROn", "REFERENC", "TBCOLn", "TDIMn", "TDISPn", "TELESCOP", "TFIELDS", "TFORMn", "THEAP",
	"TNULLn", "TSCALn", "TTYPEn", "TUNITn", "TZEROn",
}

var commentKeywords = []string{"COMMENT", "HISTORY"}

// CategoryOf returns the category of keyword.
func CategoryOf(keyword string) KeywordCategory {
	switch {
	case matchesOneOf(keyword, mandatoryKeywords):
		return Mandatory
	case matchesOneOf(keyword, reservedKeywords):
		return Reserved
	case matchesOneOf(keyword, commentKeywords):
		return Comment
	default:
		return User
	}
}

// Contains reports whether keyword belongs to one of the categories of c.
func (c KeywordCategory) Contains(keyword string) bool {
	return c&CategoryOf(keyword) != 0
}

// Filter returns the keywords that belong to c.
func (c KeywordCategory) Filter(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if c.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}

func (c KeywordCategory) String() string {
	if c == NoCategories {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		c    KeywordCategory
		name string
	}{{Mandatory, "mandatory"}, {Reserved, "reserved"}, {Comment, "comment"}, {User, "user"}} {
		if c&n.c != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

func matchesOneOf(keyword string, refs []string) bool {
	for _, ref := range refs {
		if keyword == ref || matchesIndexed(keyword, ref) {
			return true
		}
	}
	return false
}

// matchesIndexed reports whether keyword is ref with its trailing "n"
// replaced by a number.
func matchesIndexed(keyword, ref string) bool {
	stem, ok := strings.CutSuffix(ref, "n")
	if !ok || len(keyword) <= len(stem) || !strings.HasPrefix(keyword, stem) {
		return false
	}
	for _, r := range keyword[len(stem):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
