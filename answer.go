package yunheiscot

const (
	// ThreadedReplyOpt is the name of the option indicating a threaded-reply answer
	ThreadedReplyOpt = "threadedReply"
	// BroadcastOpt is the name of the option indicating a broadcast answer
	BroadcastOpt = "broadcast"
	// ThreadTimestamp is the name of the option indicating the explicit timestamp of the thread to reply to
	ThreadTimestamp = "threadTimestamp"
)

// Answer holds data of an Action's Answer: namely, its text, optional image and options
// to use when delivering it
type Answer struct {
	Text string

	// ImageURL, when set, makes the answer an image+text answer
	ImageURL string

	// ImageAltText describes the image for clients that can't show it
	ImageAltText string

	// Options to apply when sending a message
	Options []AnswerOption
}

// HasImage returns true if the answer carries an image
func (a *Answer) HasImage() bool {
	return a.ImageURL != ""
}

// AnswerOption defines a function applied to Answers
type AnswerOption func(sendOpts map[string]string)

// AnswerInThread sets threaded replying
func AnswerInThread() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
	}
}

// AnswerInExistingThread sets threaded replying with the existing thread timestamp
func AnswerInExistingThread(threadTimestamp string) AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[ThreadTimestamp] = threadTimestamp
	}
}

// AnswerInThreadWithBroadcast sets threaded replying with broadcast enabled
func AnswerInThreadWithBroadcast() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[BroadcastOpt] = "true"
	}
}

// AnswerWithoutThreading sets an answer to threading (and implicitly, broadcast) disabled
func AnswerWithoutThreading() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "false"
	}
}

// ApplyAnswerOpts applies answering options to build the send configuration
func ApplyAnswerOpts(opts ...AnswerOption) (sendOptions map[string]string) {
	sendOptions = make(map[string]string)
	for _, opt := range opts {
		opt(sendOptions)
	}

	return sendOptions
}
