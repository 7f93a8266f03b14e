package gmail

// Message is an outgoing email message.
type Message struct {
	To      []string
	Cc      []string
	Subject string
	Body    string
	IsHTML  bool
}
