package entity

import "time"

// LogRecord is one line of the append-only transaction log.
type LogRecord struct {
	Time    time.Time `json:"time" bson:"time"`
	Module  string    `json:"module" bson:"module"`
	Level   string    `json:"level" bson:"level"`
	Message string    `json:"message" bson:"message"`
}

func (l *LogRecord) DataType() string {
	return "log"
}
