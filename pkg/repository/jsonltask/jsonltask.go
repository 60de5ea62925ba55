// Package jsonltask persists tasks as newline-delimited JSON, one record
// per task. Creation appends a line; deletion rewrites the file without the
// deleted record, preserving the order of the rest.
package jsonltask

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
)

// Repository is a JSONL-file implementation of interfaces.Repository.
// A single file-level mutex serializes every read-modify-write, which is
// the per-task-id discipline the store contract requires.
type Repository struct {
	path string
	mu   sync.Mutex
}

var _ interfaces.Repository = &Repository{}
var _ interfaces.TaskRepository = &Repository{}

// New creates a repository backed by the given file path. The file is
// created lazily on the first Create.
func New(path string) *Repository {
	return &Repository{path: path}
}

// Task returns the task sub-repository
func (r *Repository) Task() interfaces.TaskRepository {
	return r
}

// Close is a no-op; the file is not held open between operations
func (r *Repository) Close() error {
	return nil
}

// Create appends the task as one JSONL line
func (r *Repository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := json.Marshal(task)
	if err != nil {
		return nil, goerr.Wrap(err, "marshal task", goerr.V("task_id", task.ID))
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, goerr.Wrap(err, "open tasks file", goerr.V("path", r.path))
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return nil, goerr.Wrap(err, "append task", goerr.V("path", r.path))
	}
	if err := f.Close(); err != nil {
		return nil, goerr.Wrap(err, "close tasks file", goerr.V("path", r.path))
	}

	stored := *task
	return &stored, nil
}

// List returns all tasks in file order. Unparseable lines are skipped with
// a warning and never fail the whole listing.
func (r *Repository) List(ctx context.Context) ([]*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, _, err := r.readAll(ctx)
	return tasks, err
}

// Get retrieves a task by ID, or types.ErrTaskNotFound
func (r *Repository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, _, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, goerr.Wrap(types.ErrTaskNotFound, "no such task", goerr.V("task_id", id))
}

// Delete rewrites the file without the deleted record. Remaining lines keep
// their order, and lines that never parsed are carried over verbatim.
func (r *Repository) Delete(ctx context.Context, id types.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, lines, err := r.readAll(ctx)
	if err != nil {
		return err
	}

	found := false
	kept := make([][]byte, 0, len(lines))
	for _, line := range lines {
		var probe struct {
			ID types.TaskID `json:"id"`
		}
		if err := json.Unmarshal(line, &probe); err == nil && probe.ID == id {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return goerr.Wrap(types.ErrTaskNotFound, "no such task", goerr.V("task_id", id))
	}

	var buf bytes.Buffer
	for _, line := range kept {
		buf.Write(line)
		buf.WriteByte('\n')
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return goerr.Wrap(err, "write tasks file", goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return goerr.Wrap(err, "replace tasks file", goerr.V("path", r.path))
	}
	return nil
}

// readAll parses the tasks file. It returns the parsed tasks plus every
// non-empty raw line, so rewrites can preserve records that do not parse.
// A missing file is an empty store.
func (r *Repository) readAll(ctx context.Context) ([]*model.Task, [][]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, goerr.Wrap(err, "read tasks file", goerr.V("path", r.path))
	}

	var tasks []*model.Task
	var lines [][]byte

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))

		var task model.Task
		if err := json.Unmarshal(line, &task); err != nil {
			logging.From(ctx).Warn("skipping unparseable task record",
				"path", r.path,
				"line", lineNum,
				"error", err.Error(),
			)
			continue
		}
		tasks = append(tasks, &task)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, goerr.Wrap(err, "scan tasks file", goerr.V("path", r.path))
	}

	return tasks, lines, nil
}
