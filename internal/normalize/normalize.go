package normalize

import (
	"regexp"
	"strings"
)

// Classification helpers for scraped posting text. Every function here is
// pure and total: any input, including empty text, maps to a value from the
// closed tag set. Rule order inside a table is a tie-break contract — the
// first matching rule wins, so a text containing both "intern" and
// "government" classifies as Internship. Do not reorder.

// counties is scanned in order; the first name found in the text wins.
var counties = []string{
	"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret", "Kiambu",
	"Machakos", "Nyeri", "Meru", "Kakamega", "Kisii", "Kilifi",
	"Embu", "Garissa", "Bungoma", "Siaya", "Migori", "Kajiado",
	"Laikipia", "Kericho", "Nandi", "Bomet", "Baringo", "Kwale",
	"Kitui", "Makueni", "Turkana", "Homa Bay", "Nyamira", "Mandera",
	"Wajir", "Marsabit", "Narok", "Vihiga", "Lamu", "Thika",
}

type rule struct {
	tag      string
	keywords []string
}

var typeRules = []rule{
	{"Internship", []string{"intern", "attachment", "graduate trainee"}},
	{"Part-Time", []string{"part-time", "part time", "casual"}},
	{"Government", []string{"government", "county", "ministry", "public service", "psc", "civil service"}},
	{"NGO", []string{"ngo", "unicef", "undp", "wfp", "unhcr", "oxfam", "red cross", "non-profit", "foundation"}},
	{"Remote", []string{"remote", "work from home", "wfh"}},
	{"Contract", []string{"contract", "consultant", "temporary", "freelance"}},
}

const defaultType = "Full-Time"

var sectorRules = []rule{
	{"ICT & Technology", []string{"software", "developer", "ict", "data", "cyber", "system", "network", "tech"}},
	{"Health & Medicine", []string{"nurse", "doctor", "medical", "health", "clinical", "pharmacy", "lab"}},
	{"Finance & Banking", []string{"finance", "account", "audit", "tax", "banking", "economist"}},
	{"Engineering", []string{"engineer", "civil", "mechanical", "electrical", "construction"}},
	{"Education", []string{"teach", "tutor", "lecturer", "school", "education", "training"}},
	{"Agriculture", []string{"farm", "agri", "crop", "livestock", "food", "rural"}},
	{"Marketing & Sales", []string{"market", "sales", "brand", "advertis", "digital"}},
	{"NGO / Non-Profit", []string{"ngo", "humanitarian", "relief", "development", "programme"}},
	{"Legal", []string{"legal", "lawyer", "advocate", "court", "compliance"}},
	{"Transport & Logistics", []string{"driver", "transport", "logistics", "supply", "fleet"}},
	{"Hospitality & Tourism", []string{"hotel", "hospitality", "tour", "chef", "cook", "restaurant"}},
}

const defaultSector = "General"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
)

// emailDenylist filters out non-actionable addresses: autoresponders,
// documentation placeholders, and monitoring-service accounts that leak
// into scraped page bodies.
var emailDenylist = []string{
	"noreply", "no-reply", "donotreply", "example", "sentry", "wixpress",
}

// Clean trims s and collapses internal whitespace runs to single spaces.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// County infers a county tag from free-text location or title text.
// Falls back to "Remote" for remote/online postings, else "Nairobi".
func County(s string) string {
	t := strings.ToLower(s)
	for _, c := range counties {
		if strings.Contains(t, strings.ToLower(c)) {
			return c
		}
	}
	if strings.Contains(t, "remote") || strings.Contains(t, "online") {
		return "Remote"
	}
	return "Nairobi"
}

// JobType classifies posting text into one employment-type tag.
func JobType(s string) string {
	return matchRules(s, typeRules, defaultType)
}

// Sector classifies posting text into one industry tag.
func Sector(s string) string {
	return matchRules(s, sectorRules, defaultSector)
}

func matchRules(s string, rules []rule, fallback string) string {
	t := strings.ToLower(s)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(t, kw) {
				return r.tag
			}
		}
	}
	return fallback
}

// Email returns the first address found in s that is not on the denylist,
// or "" when none survive.
func Email(s string) string {
	for _, m := range emailRe.FindAllString(s, -1) {
		if !deniedEmail(m) {
			return m
		}
	}
	return ""
}

func deniedEmail(addr string) bool {
	a := strings.ToLower(addr)
	for _, d := range emailDenylist {
		if strings.Contains(a, d) {
			return true
		}
	}
	return false
}

// StripHTML removes anything delimited by angle brackets. Entity decoding
// is deliberately not attempted.
func StripHTML(s string) string {
	return tagRe.ReplaceAllString(s, " ")
}

// Counties returns the known county tags in match order.
func Counties() []string {
	out := make([]string, len(counties))
	copy(out, counties)
	return out
}
