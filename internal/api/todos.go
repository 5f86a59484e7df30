package api

import (
	"context"
	"fmt"

	"github.com/nhle/todo-client/internal/model"
)

// ListTodos returns every todo of the current user.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var items []apiTodo
	if err := c.get(ctx, "/api/todos/", &items); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	todos := make([]model.Todo, 0, len(items))
	for _, it := range items {
		todos = append(todos, it.toModel())
	}
	return todos, nil
}

// CreateTodo creates a todo and returns the stored record.
func (c *Client) CreateTodo(ctx context.Context, in TodoCreate) (model.Todo, error) {
	var created apiTodo
	if err := c.post(ctx, "/api/todos/", in.wire(), &created); err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	return created.toModel(), nil
}

// UpdateTodo applies a partial update and returns the stored record.
func (c *Client) UpdateTodo(ctx context.Context, id int64, in TodoUpdate) (model.Todo, error) {
	var updated apiTodo
	if err := c.put(ctx, fmt.Sprintf("/api/todos/%d", id), in.wire(), &updated); err != nil {
		return model.Todo{}, fmt.Errorf("updating todo %d: %w", id, err)
	}
	return updated.toModel(), nil
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/api/todos/%d", id)); err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return nil
}

// ClearCompleted removes every completed todo.
func (c *Client) ClearCompleted(ctx context.Context) error {
	if err := c.delete(ctx, "/api/todos/completed/clear"); err != nil {
		return fmt.Errorf("clearing completed todos: %w", err)
	}
	return nil
}
