package yunheiscot

import (
	"github.com/slack-go/slack"
)

// chatDriver is implemented by any value that has the SendMessage method. It returns the information
// identifying the sent message.
//
// slack.Client implements this interface
type chatDriver interface {
	SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
}
