package labels

func defaultGroups() map[string]map[string]string {
	return map[string]map[string]string{
		"platform": {
			"desktop": "Desktop Browser",
			"mobile":  "Mobile Browser",
			"api":     "App",
			"other":   "unknown",
		},
		"os": {
			"windows": "Microsoft Windows",
			"mac":     "macOS",
			"linux":   "Linux",
			"other":   "unknown",
		},
		"browser": {
			"chrome":  "Google Chrome",
			"edge":    "Microsoft Edge",
			"firefox": "Mozilla Firefox",
			"ie":      "Internet Explorer",
			"opera":   "Opera",
			"safari":  "Safari",
			"other":   "other",
		},
		"mobile": {
			"android": "Android",
			"ios":     "iOS",
			"other":   "unknown",
		},
	}
}

func defaultStrings() map[string]string {
	return map[string]string{
		"activity_type":         "Activity type",
		"activity_name":         "Activity name",
		"section":               "Section",
		"hits":                  "Hits",
		"most_used_activities":  "Most used activities",
		"all_activities":        "All activities",
		"browser_name":          "Browser",
		"desktop_browser_use":   "Desktop Browser Use",
		"platform":              "Platform",
		"os":                    "Operating system",
		"mobile":                "Mobile operating system",
		"languages_of_learners": "Languages of learners",
		"countries_of_learners": "Countries of learners",
		"most_active_learners":  "Most active learners",
		"learner":               "Learner",
		"show_more":             "Show more",
		"unknown":               "Unknown",
	}
}
