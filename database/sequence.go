package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Sequence is a named counter backing human-readable entity codes. Values
// are allocated with a single atomic upsert so concurrent creations under
// the same key can never observe the same value.
type Sequence struct {
	Key   string `gorm:"primaryKey;column:key;size:64"`
	Value int64  `gorm:"column:value;not null"`
}

func (Sequence) TableName() string {
	return "sequences"
}

// NextSequence atomically increments and returns the counter for key within
// the given transaction. The first call for a key returns 1.
func NextSequence(tx *gorm.DB, key string) (int64, error) {
	var value int64
	err := tx.Raw(
		`INSERT INTO sequences (key, value) VALUES (?, 1)
		 ON CONFLICT (key) DO UPDATE SET value = sequences.value + 1
		 RETURNING value`,
		key,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence %q: %w", key, err)
	}
	return value, nil
}

// AppointmentSequenceKey scopes the appointment counter to one doctor's day.
func AppointmentSequenceKey(doctorID string, date time.Time) string {
	return fmt.Sprintf("appointment:%s:%s", doctorID, date.Format("20060102"))
}

// Sequence keys for globally numbered entities.
const (
	SeqDoctor      = "doctor"
	SeqMedicine    = "medicine"
	SeqRoom        = "room"
	SeqPolicy      = "policy"
	SeqReservation = "reservation"
)
