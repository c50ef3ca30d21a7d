package bot

import (
	"context"
	"github.com/maxaizer/jobs-alert/internal/entities"
)

// Messenger sends a single alert message to a chat, it does not retry.
type Messenger struct {
	api apiInterface
}

func (m *Messenger) Send(_ context.Context, recipient entities.RecipientID, text string, markdown bool) error {

	msg := plainReply(int64(recipient), text)
	if markdown {
		msg = markdownReply(int64(recipient), text)
	}

	_, err := m.api.Send(msg)
	return err
}
