package plugins

import (
	"context"
	"fmt"
	"regexp"

	"github.com/furryhm/yunheiscot"
	"github.com/furryhm/yunheiscot/actions"
	"github.com/furryhm/yunheiscot/blacklist"
	"github.com/furryhm/yunheiscot/config"
	"github.com/furryhm/yunheiscot/plugin"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// CloudBlacklist holds the plugin data for the cloud blacklist lookup plugin
type CloudBlacklist struct {
	yunheiscot.Plugin

	config            *config.PluginConfig
	fetcher           blacklist.Fetcher
	meter             metric.Meter
	withProfile       bool
	avatarURLTemplate string
}

const (
	// CloudBlacklistPluginName holds identifying name for the cloud blacklist plugin
	CloudBlacklistPluginName = "cloudBlacklist"
)

// Configuration keys of the cloud blacklist plugin
const (
	// APIKeyKey is the credential sent as key on every blacklist call. Lookups fail with a
	// configuration message when it's missing
	APIKeyKey = "apiKey"

	// BlacklistURLKey is the blacklist endpoint, defaulting to blacklist.DefaultBlacklistURL
	BlacklistURLKey = "blacklistURL"

	// NicknameURLKey is the optional nickname/avatar endpoint. The nickname call is only made
	// when it's set
	NicknameURLKey = "nicknameURL"

	// AvatarURLTemplateKey is the fmt template building an avatar url from an identifier
	AvatarURLTemplateKey = "avatarURLTemplate"

	// TimeoutKey is the per call upstream timeout as a duration string (e.g. "10s")
	TimeoutKey = "timeout"
)

// The blacklist is keyed by QQ number. Mentions and the sender resolve to chat user ids, which
// only match when the chat identifies users by their QQ number
const (
	lookupUsage       = "云黑查询 <QQ号>"
	lookupDescription = "Look up `<QQ号>` in the cloud blacklist. Without it, the first mentioned user or yourself is looked up by chat user id"
)

var lookupRegex = regexp.MustCompile(`^(?:云黑查询|查云黑|云黑)(?:\s+(\S+))?\s*$`)

// CloudBlacklistOption defines an option for the cloud blacklist plugin
type CloudBlacklistOption func(cb *CloudBlacklist)

// OptionFetcher sets the fetcher used for upstream calls in place of the http one built from
// the configuration
func OptionFetcher(fetcher blacklist.Fetcher) CloudBlacklistOption {
	return func(cb *CloudBlacklist) {
		cb.fetcher = fetcher
	}
}

// OptionFetcherMeter sets the meter used to instrument the upstream calls. Defaults to the
// global meter provider's
func OptionFetcherMeter(meter metric.Meter) CloudBlacklistOption {
	return func(cb *CloudBlacklist) {
		cb.meter = meter
	}
}

// NewCloudBlacklist creates a new instance of the cloud blacklist plugin
func NewCloudBlacklist(c *config.PluginConfig, options ...CloudBlacklistOption) (cb *CloudBlacklist, err error) {
	if c == nil {
		return nil, fmt.Errorf("Missing configuration for plugin [%s]", CloudBlacklistPluginName)
	}

	c.SetDefault(BlacklistURLKey, blacklist.DefaultBlacklistURL)
	c.SetDefault(AvatarURLTemplateKey, blacklist.DefaultAvatarURLTemplate)
	c.SetDefault(TimeoutKey, blacklist.DefaultTimeout)

	cb = new(CloudBlacklist)
	cb.config = c
	cb.meter = otel.GetMeterProvider().Meter("github.com/furryhm/yunheiscot/plugins")
	cb.withProfile = c.GetString(NicknameURLKey) != ""
	cb.avatarURLTemplate = c.GetString(AvatarURLTemplateKey)

	for _, option := range options {
		option(cb)
	}

	if cb.fetcher == nil {
		client := blacklist.NewClient(c.GetDuration(TimeoutKey),
			blacklist.OptionBlacklistURL(c.GetString(BlacklistURLKey)),
			blacklist.OptionNicknameURL(c.GetString(NicknameURLKey)))

		cb.fetcher, err = blacklist.NewFetcherWithTelemetry(client, CloudBlacklistPluginName, cb.meter)
		if err != nil {
			return nil, errors.Wrapf(err, "Error instrumenting fetcher for plugin [%s]", CloudBlacklistPluginName)
		}
	}

	cb.Plugin = *plugin.New(CloudBlacklistPluginName).
		WithCommand(actions.NewCommand().
			MatchingPattern(lookupRegex).
			WithUsage(lookupUsage).
			WithDescription(lookupDescription).
			WithAnswerer(cb.lookup).
			Build()).
		Build()

	return cb, nil
}

// lookup resolves who the message is about, runs the upstream lookup and answers with the
// formatted report and avatar or with the user facing message of the failure
func (cb *CloudBlacklist) lookup(m *yunheiscot.IncomingMessage) *yunheiscot.Answer {
	argument := ""
	if matches := lookupRegex.FindStringSubmatch(m.NormalizedText); len(matches) > 1 {
		argument = matches[1]
	}

	targetID := blacklist.Resolve(blacklist.ResolveInput{Mentions: m.Mentions, Argument: argument, SenderID: m.User, SelfID: m.BotUserID})

	req, err := blacklist.NewLookupRequest(targetID, cb.config.GetString(APIKeyKey))
	if err != nil {
		return cb.failure(targetID, err)
	}

	r, err := blacklist.Lookup(context.Background(), cb.fetcher, req, blacklist.LookupOptions{
		WithProfile:       cb.withProfile,
		AvatarURLTemplate: cb.avatarURLTemplate,
		OnProfileError: func(err error) {
			cb.Logger.Debugf("[%s] Nickname lookup for [%s] failed, using fallback identity: %v", CloudBlacklistPluginName, targetID, err)
		},
	})
	if err != nil {
		return cb.failure(targetID, err)
	}

	if r.AvatarURL == "" {
		r = r.WithProfile(blacklist.Profile{}, targetID, cb.avatarURLTemplate)
	}

	cb.Logger.Debugf("[%s] Lookup for [%s] done, blacklisted: [%t]", CloudBlacklistPluginName, targetID, r.Blacklist.Blacklisted)

	return &yunheiscot.Answer{Text: blacklist.Format(r), ImageURL: r.AvatarURL, ImageAltText: r.DisplayName}
}

func (cb *CloudBlacklist) failure(targetID string, err error) *yunheiscot.Answer {
	switch blacklist.KindOf(err) {
	case blacklist.KindNoRecord:
		cb.Logger.Debugf("[%s] No record for [%s]", CloudBlacklistPluginName, targetID)
	case blacklist.KindMalformedJSON:
		cb.Logger.Printf("[%s] Lookup for [%s] failed with [%s]: %v", CloudBlacklistPluginName, targetID, blacklist.KindOf(err), err)
		cb.Logger.Debugf("[%s] Upstream body for [%s]: %s", CloudBlacklistPluginName, targetID, blacklist.BodyPreview(err))
	default:
		cb.Logger.Printf("[%s] Lookup for [%s] failed with [%s]: %v", CloudBlacklistPluginName, targetID, blacklist.KindOf(err), err)
	}

	return &yunheiscot.Answer{Text: blacklist.Message(err)}
}
