package cli

import (
	"sync"

	"golang.org/x/net/html"
)

// NoticeBoard collects controller notifications until the UI shows them.
type NoticeBoard struct {
	mu   sync.Mutex
	last string
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{}
}

func (b *NoticeBoard) Notify(_ *html.Node, message string) {
	b.mu.Lock()
	b.last = message
	b.mu.Unlock()
}

// Take returns the pending notice and clears it.
func (b *NoticeBoard) Take() string {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	message := b.last
	b.last = ""
	return message
}
