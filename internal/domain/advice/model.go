package advice

// Result is a structured care recommendation derived from a weather reading.
// It has no identity of its own and is discarded once the message is sent.
type Result struct {
	Header    string
	BodyLines []string
}

// Text renders the result as a single LINE text message.
func (r Result) Text() string {
	msg := r.Header
	for _, line := range r.BodyLines {
		msg += "\n" + line
	}
	return msg
}
