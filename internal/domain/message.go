package domain

type Message struct {
	From   ParticipantID
	Text   MessageText
	SentAt Timestamp
}
