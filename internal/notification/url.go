package notification

import (
	"net/url"
	"strconv"
)

// Relative links attached to notifications. The delivery side prefixes its own host.

func ActivityURL(activityID int64) string {
	return "/activity/" + strconv.FormatInt(activityID, 10)
}

func GroupURL(shortName string) string {
	return "/groups/" + url.PathEscape(shortName)
}

const (
	PendingGroupsURL  = "/settings/system/pending-groups"
	FlaggedContentURL = "/settings/system/flagged"
)
