package email

// ContactEmailData is the payload of a contact form submission. It is also
// the asynq task payload for shared.TypeSendContactEmail.
type ContactEmailData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type EmailRequest struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
	IsHTML  bool
}
