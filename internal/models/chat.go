package models

// Sender identifies who produced a chat turn
type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

// ChatTurn is one transcript entry. Text may contain line breaks.
type ChatTurn struct {
	Text        string
	Sender      Sender
	DisplayName string
}
