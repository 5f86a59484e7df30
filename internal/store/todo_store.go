package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/todo-client/internal/model"
)

const upsertTodoQuery = `
	INSERT OR REPLACE INTO todos (
		id, text, completed, created_at,
		due_date, category, priority, description
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func todoArgs(t model.Todo) []any {
	var due *time.Time
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		due = &d
	}
	return []any{
		t.ID, t.Text, t.Completed, t.CreatedAt.UTC(),
		due, string(t.Category), string(model.ParsePriority(string(t.Priority))), t.Description,
	}
}

// ReplaceTodos deletes every cached todo and inserts todos in a single
// transaction.
func (s *SQLiteStore) ReplaceTodos(ctx context.Context, todos []model.Todo) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM todos"); err != nil {
		return fmt.Errorf("clearing todos: %w", err)
	}
	if err := insertTodos(ctx, tx, todos); err != nil {
		return err
	}

	return tx.Commit()
}

func insertTodos(ctx context.Context, tx *sqlx.Tx, todos []model.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, upsertTodoQuery)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range todos {
		if _, err := stmt.ExecContext(ctx, todoArgs(t)...); err != nil {
			return fmt.Errorf("upserting todo %d: %w", t.ID, err)
		}
	}
	return nil
}

// UpsertTodo inserts or replaces a single todo.
func (s *SQLiteStore) UpsertTodo(ctx context.Context, todo model.Todo) error {
	if _, err := s.db.ExecContext(ctx, upsertTodoQuery, todoArgs(todo)...); err != nil {
		return fmt.Errorf("upserting todo %d: %w", todo.ID, err)
	}
	return nil
}

// DeleteTodo removes a todo. Deleting an unknown id is not an error.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return nil
}

// DeleteCompletedTodos removes every completed todo.
func (s *SQLiteStore) DeleteCompletedTodos(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE completed = 1"); err != nil {
		return fmt.Errorf("deleting completed todos: %w", err)
	}
	return nil
}

// GetTodos returns all cached todos, newest first.
func (s *SQLiteStore) GetTodos(ctx context.Context) ([]model.Todo, error) {
	todos := []model.Todo{}
	err := s.db.SelectContext(ctx, &todos, `
		SELECT id, text, completed, created_at, due_date, category, priority, description
		FROM todos
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	return todos, nil
}
