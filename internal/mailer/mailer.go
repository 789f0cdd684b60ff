package mailer

import "context"

// Message holds the fields needed to send one email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer abstracts delivery to an external email provider. Delivery is
// asynchronous on the provider side and may fail; retry policy belongs to
// the provider, never to callers of this interface.
// Mocking this interface in tests gives full control over provider
// behaviour without making real HTTP calls.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
