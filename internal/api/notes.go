package api

import (
	"context"
	"fmt"

	"github.com/nhle/todo-client/internal/model"
)

func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	var items []apiNote
	if err := c.get(ctx, "/api/notes/", &items); err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	notes := make([]model.Note, 0, len(items))
	for _, it := range items {
		notes = append(notes, it.toModel())
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (model.Note, error) {
	var n apiNote
	if err := c.get(ctx, fmt.Sprintf("/api/notes/%d", id), &n); err != nil {
		return model.Note{}, fmt.Errorf("fetching note %d: %w", id, err)
	}
	return n.toModel(), nil
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (model.Note, error) {
	var n apiNote
	if err := c.post(ctx, "/api/notes/", in.createBody(), &n); err != nil {
		return model.Note{}, fmt.Errorf("creating note: %w", err)
	}
	return n.toModel(), nil
}

func (c *Client) UpdateNote(ctx context.Context, id int64, in NoteInput) (model.Note, error) {
	var n apiNote
	if err := c.put(ctx, fmt.Sprintf("/api/notes/%d", id), in.updateBody(), &n); err != nil {
		return model.Note{}, fmt.Errorf("updating note %d: %w", id, err)
	}
	return n.toModel(), nil
}

// DeleteNote removes a note. The backend answers with a message body,
// which is ignored.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/api/notes/%d", id)); err != nil {
		return fmt.Errorf("deleting note %d: %w", id, err)
	}
	return nil
}
