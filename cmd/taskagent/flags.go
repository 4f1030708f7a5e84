package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amonks/taskagent/task"
)

// statusFlag accepts a task status, case-insensitively.
type statusFlag struct {
	value task.Status
}

func (f *statusFlag) String() string { return string(f.value) }

func (f *statusFlag) Set(value string) error {
	status, err := task.ParseStatus(value)
	if err != nil {
		return err
	}
	f.value = status
	return nil
}

func (f *statusFlag) Type() string { return "status" }

// priorityFlag accepts a task priority, case-insensitively.
type priorityFlag struct {
	value task.Priority
}

func (f *priorityFlag) String() string { return string(f.value) }

func (f *priorityFlag) Set(value string) error {
	priority, err := task.ParsePriority(value)
	if err != nil {
		return err
	}
	f.value = priority
	return nil
}

func (f *priorityFlag) Type() string { return "priority" }

var taskFlagAliases = map[string]string{
	"pri": "priority",
}

func addTaskFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), taskFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}
