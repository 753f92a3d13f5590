package models

import "time"

// Message represents a chat message loaded from history or received live
type Message struct {
	Seq     uint64
	ID      string
	Channel string
	Sender  string
	Body    string
	Time    time.Time
}

// MessageDetail holds the full information shown in the message inspector
type MessageDetail struct {
	Seq     uint64
	ID      string
	Channel string
	Subject string
	Sender  string
	Body    string
	Time    time.Time
	Size    int
	Raw     string
}
