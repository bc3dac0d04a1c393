package blacklist

import (
	"fmt"
	"strings"
)

// Display fallbacks for missing or empty upstream fields
const (
	unknownValue    = "未知"
	noRecordValue   = "无记录"
	noNoteValue     = "无说明"
	noLevelValue    = "无"
	defaultTypeCode = "none"

	yesValue = "是"
	noValue  = "否"
)

// typeLabels translates blacklist type codes. Codes not listed are displayed verbatim
var typeLabels = map[string]string{
	"none":   "无违规",
	"yunhei": "云黑",
}

// UserRecord is the first upstream record: the user and its account bindings
type UserRecord struct {
	User             string
	PhoneBound       bool
	WechatBound      bool
	AlipayBound      bool
	RealNameVerified bool
}

// StatsRecord is the second upstream record: send activity statistics. Values are opaque
// display strings
type StatsRecord struct {
	GroupCount      string
	MonthlySendings string
	TotalSendings   string
	FirstSend       string
	LastSend        string
}

// BlacklistRecord is the third upstream record: the blacklist status itself
type BlacklistRecord struct {
	Blacklisted bool
	Type        string
	Note        string
	Admin       string
	Level       string
	Date        string
}

// Report is the display ready result of a lookup. DisplayName and AvatarURL are only set when
// the report was merged with a profile
type Report struct {
	User      UserRecord
	Stats     StatsRecord
	Blacklist BlacklistRecord

	DisplayName string
	AvatarURL   string
}

// WithProfile returns a copy of the report carrying the profile's identity. Blank profile values
// fall back to the ones of FallbackProfile
func (r Report) WithProfile(p Profile, targetID string, avatarURLTemplate string) Report {
	fallback := FallbackProfile(targetID, avatarURLTemplate)

	r.DisplayName = strings.TrimSpace(p.DisplayName)
	if r.DisplayName == "" {
		r.DisplayName = fallback.DisplayName
	}

	r.AvatarURL = strings.TrimSpace(p.AvatarURL)
	if r.AvatarURL == "" {
		r.AvatarURL = fallback.AvatarURL
	}

	return r
}

// FallbackProfile returns the identity used when the nickname lookup can't provide one: the raw
// identifier as name and the avatar template (a fmt format with a single %s) applied to it
func FallbackProfile(targetID string, avatarURLTemplate string) Profile {
	if avatarURLTemplate == "" {
		avatarURLTemplate = DefaultAvatarURLTemplate
	}

	return Profile{DisplayName: targetID, AvatarURL: fmt.Sprintf(avatarURLTemplate, targetID)}
}

// TypeLabel returns the display label of a blacklist type code
func TypeLabel(code string) string {
	if label, ok := typeLabels[code]; ok {
		return label
	}

	return code
}

func yesNo(b bool) string {
	if b {
		return yesValue
	}

	return noValue
}
