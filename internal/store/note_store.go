package store

import (
	"context"
	"fmt"

	"github.com/nhle/todo-client/internal/model"
)

const upsertNoteQuery = `
	INSERT OR REPLACE INTO notes (
		id, title, content, category, color, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

func noteArgs(n model.Note) []any {
	return []any{
		n.ID, n.Title, n.Content, string(n.Category),
		model.NormalizeNoteColor(n.Color), n.CreatedAt.UTC(), n.UpdatedAt.UTC(),
	}
}

// ReplaceNotes swaps the cached notes for notes in one transaction.
func (s *SQLiteStore) ReplaceNotes(ctx context.Context, notes []model.Note) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes"); err != nil {
		return fmt.Errorf("clearing notes: %w", err)
	}
	for _, n := range notes {
		if _, err := tx.ExecContext(ctx, upsertNoteQuery, noteArgs(n)...); err != nil {
			return fmt.Errorf("upserting note %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) UpsertNote(ctx context.Context, note model.Note) error {
	if _, err := s.db.ExecContext(ctx, upsertNoteQuery, noteArgs(note)...); err != nil {
		return fmt.Errorf("upserting note %d: %w", note.ID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting note %d: %w", id, err)
	}
	return nil
}

// GetNotes returns cached notes, most recently updated first.
func (s *SQLiteStore) GetNotes(ctx context.Context) ([]model.Note, error) {
	notes := []model.Note{}
	err := s.db.SelectContext(ctx, &notes, `
		SELECT id, title, content, category, color, created_at, updated_at
		FROM notes
		ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	return notes, nil
}
