package expenses_bot

import (
	"regexp"
)

func getMatches(r *regexp.Regexp, str string) (map[string]string, bool) {
	matches := r.FindStringSubmatch(str)
	if matches == nil {
		return nil, false
	}
	result := make(map[string]string)
	for i, name := range r.SubexpNames() {
		if i != 0 && name != "" {
			result[name] = matches[i]
		}
	}
	return result, true
}
