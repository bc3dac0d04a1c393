package yunheiscot

import (
	"github.com/furryhm/yunheiscot/config"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

const (
	defaultImageAltText = "image"
)

// ErrCompositeDelivery is reported (logged) when an image+text answer can't be sent as a single message
var ErrCompositeDelivery = errors.New("composite image and text delivery failed")

// deliver sends an answer. Text answers are sent as a single text message. Answers with an image are
// first sent as a single composite message (image block followed by a text section). If that fails,
// the image and the text are sent as two separate messages, image first. A failed image send doesn't
// prevent the text from being sent and only the text send error is returned
func (s *Yunheiscot) deliver(o *OutgoingMessage) (err error) {
	opts := s.sendOptions(o)

	if !o.HasImage() {
		_, _, _, err = s.chatDriver.SendMessage(o.channelID, withOptions(opts, slack.MsgOptionText(o.Text, false))...)
		return err
	}

	_, _, _, err = s.chatDriver.SendMessage(o.channelID, withOptions(opts, compositeMsgOptions(o.Answer)...)...)
	if err == nil {
		return nil
	}

	s.ins.recordDeliveryFallback()
	s.log.Printf("%v for answer from [%s] on channel [%s], sending image and text separately: %v", ErrCompositeDelivery, o.pluginIdentifier, o.channelID, err)

	if _, _, _, imgErr := s.chatDriver.SendMessage(o.channelID, withOptions(opts, imageMsgOptions(o.Answer)...)...); imgErr != nil {
		s.log.Printf("Unable to send image [%s] from [%s] on channel [%s]: %v", o.ImageURL, o.pluginIdentifier, o.channelID, imgErr)
	}

	_, _, _, err = s.chatDriver.SendMessage(o.channelID, withOptions(opts, slack.MsgOptionText(o.Text, false))...)
	return err
}

// sendOptions returns the delivery options shared by all messages of an answer: threading as configured,
// overridden by the answer's own options
func (s *Yunheiscot) sendOptions(o *OutgoingMessage) (opts []slack.MsgOption) {
	opts = []slack.MsgOption{slack.MsgOptionAsUser(true)}

	sendOpts := ApplyAnswerOpts(o.Options...)

	threaded := s.config.GetBool(config.ThreadedRepliesKey)
	if v, ok := sendOpts[ThreadedReplyOpt]; ok {
		threaded = v == "true"
	}

	if !threaded {
		return opts
	}

	threadTS := o.threadTS
	if ts, ok := sendOpts[ThreadTimestamp]; ok {
		threadTS = ts
	}

	opts = append(opts, slack.MsgOptionTS(threadTS))

	if sendOpts[BroadcastOpt] == "true" {
		opts = append(opts, slack.MsgOptionBroadcast())
	}

	return opts
}

// withOptions returns a new slice holding the shared options followed by the message specific ones
func withOptions(shared []slack.MsgOption, options ...slack.MsgOption) (all []slack.MsgOption) {
	all = make([]slack.MsgOption, 0, len(shared)+len(options))
	all = append(all, shared...)

	return append(all, options...)
}

func altText(a *Answer) string {
	if a.ImageAltText != "" {
		return a.ImageAltText
	}

	return defaultImageAltText
}

// compositeMsgOptions renders an answer as an image block followed by a text section. The text is
// also set as the message text for notifications
func compositeMsgOptions(a *Answer) []slack.MsgOption {
	return []slack.MsgOption{
		slack.MsgOptionText(a.Text, false),
		slack.MsgOptionBlocks(
			slack.NewImageBlock(a.ImageURL, altText(a), "", nil),
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, a.Text, false, false), nil, nil),
		),
	}
}

func imageMsgOptions(a *Answer) []slack.MsgOption {
	return []slack.MsgOption{
		slack.MsgOptionText(altText(a), false),
		slack.MsgOptionBlocks(slack.NewImageBlock(a.ImageURL, altText(a), "", nil)),
	}
}
