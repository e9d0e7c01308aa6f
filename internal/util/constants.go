package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	ContextUserKey   = "user"
	ContextConfigKey = "config"
)

const (
	TimeframeImmediate  = "immediate (0-30 days)"
	TimeframeShortTerm  = "short-term (30-90 days)"
	TimeframeMediumTerm = "medium-term (90+ days)"
)
