package model

import "time"

// Note colors accepted by the backend.
const (
	NoteColorYellow = "yellow"
	NoteColorBlue   = "blue"
	NoteColorGreen  = "green"
	NoteColorPurple = "purple"
	NoteColorPink   = "pink"
)

// NoteColors lists the accepted note colors, default first.
func NoteColors() []string {
	return []string{NoteColorYellow, NoteColorBlue, NoteColorGreen, NoteColorPurple, NoteColorPink}
}

// NormalizeNoteColor returns c when it is a known color and yellow otherwise.
func NormalizeNoteColor(c string) string {
	switch c {
	case NoteColorYellow, NoteColorBlue, NoteColorGreen, NoteColorPurple, NoteColorPink:
		return c
	default:
		return NoteColorYellow
	}
}

// Note is a free-form note mirrored from the backend.
type Note struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content,omitempty" db:"content"`
	Category  Category  `json:"category,omitempty" db:"category"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// User is the authenticated account.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
