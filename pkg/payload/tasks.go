package payload

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/afc-network/afcctl/pkg/util"
)

// Task is one invocation in a multi-task file.
type Task struct {
	Name      string      `yaml:"name"`
	Command   string      `yaml:"command"`
	Operation string      `yaml:"operation"`
	Data      interface{} `yaml:"data"`
}

// Label names the task for output: its name, or "<command> <operation>".
func (t Task) Label() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Operation == "" {
		return t.Command
	}
	return t.Command + " " + t.Operation
}

type taskFile struct {
	Tasks []Task `yaml:"tasks"`
}

// ParseTasks decodes a task list. The document is either a list of tasks
// or a mapping with a "tasks" key.
func ParseTasks(data []byte) ([]Task, error) {
	var tasks []Task
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("-")) || bytes.HasPrefix(trimmed, []byte("[")) {
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("parsing tasks: %w", err)
		}
	} else {
		var f taskFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing tasks: %w", err)
		}
		tasks = f.Tasks
	}

	if len(tasks) == 0 {
		return nil, util.NewValidationError("task file contains no tasks")
	}
	v := &util.ValidationBuilder{}
	for i := range tasks {
		v.Add(tasks[i].Command != "", fmt.Sprintf("task %d (%s): command is required", i+1, tasks[i].Label()))
		d, err := Normalize(tasks[i].Data)
		if err != nil {
			v.AddErrorf("task %d (%s): %v", i+1, tasks[i].Label(), err)
			continue
		}
		tasks[i].Data = d
	}
	if err := v.Build(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// LoadTasks reads a task file from path; "-" reads stdin.
func LoadTasks(path string) ([]Task, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	tasks, err := ParseTasks(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}
