package testsupport

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce     sync.Once
	taskagentPath string
	buildErr      error
)

// scrubbedEnv lists variables that would let scripts reach real services.
var scrubbedEnv = []string{
	"GEMINI_API_KEY",
	"GOOGLE_API_KEY",
	"NOTION_INTERNAL_SECRET",
	"NOTION_DATABASE_ID",
	"GOOGLE_CALENDAR_TOKEN",
}

// BuildTaskagent builds the taskagent binary once and returns its path.
func BuildTaskagent(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "taskagent-bin-")
		if err != nil {
			buildErr = err
			return
		}

		taskagentPath = filepath.Join(binDir, "taskagent")
		cmd := exec.Command("go", "build", "-o", taskagentPath, "./cmd/taskagent")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build taskagent: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return taskagentPath
}

// SetupScriptEnv configures common environment variables for testscript.
// Credentials are cleared so scripts never call real services.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TASKAGENT", BuildTaskagent(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("NO_COLOR", "1")
	for _, name := range scrubbedEnv {
		env.Setenv(name, "")
	}
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
