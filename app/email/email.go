package email

import "context"

// Address is a named recipient or sender.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Message is one outbound transactional email in the provider's wire shape.
type Message struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
}

// Sender dispatches a built message. Implemented by Client; tests substitute
// their own.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Builder assembles a Message. Obtained from Client.NewMessage so the sender
// address is always the configured one.
type Builder struct {
	msg Message
}

func (b *Builder) To(name, email string) *Builder {
	b.msg.To = append(b.msg.To, Address{Name: name, Email: email})
	return b
}

func (b *Builder) Subject(subject string) *Builder {
	b.msg.Subject = subject
	return b
}

func (b *Builder) HTMLContent(html string) *Builder {
	b.msg.HTMLContent = html
	return b
}

func (b *Builder) Build() *Message {
	msg := b.msg
	return &msg
}
