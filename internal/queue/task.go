package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"unisms/internal/security"
)

const (
	TaskLedger     = "ledger"
	TaskStatistics = "statistics"
)

var ErrBadSignature = errors.New("task signature mismatch")

// Task is the archive envelope carried on the stream. Data holds the JSON
// document and Signature an HMAC over type, id and data.
type Task struct {
	Type      string
	ID        string
	Data      json.RawMessage
	Signature string
}

func NewTask(secret, taskType, id string, payload any) (Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("encode %s task: %w", taskType, err)
	}
	return Task{
		Type:      taskType,
		ID:        id,
		Data:      data,
		Signature: security.SignResource(secret, taskType, id, string(data)),
	}, nil
}

func (t Task) Values() map[string]any {
	return map[string]any{
		"type":      t.Type,
		"id":        t.ID,
		"data":      string(t.Data),
		"signature": t.Signature,
	}
}

// DecodeTask reads a stream entry written by Values.
func DecodeTask(values map[string]any) (Task, error) {
	field := func(name string) (string, error) {
		raw, ok := values[name]
		if !ok {
			return "", fmt.Errorf("missing field %q", name)
		}
		s, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("field %q is %T, want string", name, raw)
		}
		return s, nil
	}

	var task Task
	var err error
	if task.Type, err = field("type"); err != nil {
		return Task{}, err
	}
	if task.ID, err = field("id"); err != nil {
		return Task{}, err
	}
	data, err := field("data")
	if err != nil {
		return Task{}, err
	}
	task.Data = json.RawMessage(data)
	if task.Signature, err = field("signature"); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (t Task) Verify(secret string) error {
	if !security.VerifyResource(secret, t.Signature, t.Type, t.ID, string(t.Data)) {
		return ErrBadSignature
	}
	return nil
}
