// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/dormnet/dormnet/lib/credential"
	"github.com/dormnet/dormnet/lib/process/processtest"
)

func newTestNSSM(t *testing.T) (*NSSM, *processtest.Runner) {
	t.Helper()
	runner := processtest.New()
	return &NSSM{
		ServiceName: "DormNet",
		ScriptDir:   t.TempDir(),
		Start:       StartCommand{Binary: "npm", Args: []string{"start"}},
		Process:     runner,
	}, runner
}

func testCredentials(t *testing.T) *credential.Set {
	t.Helper()
	set, err := credential.NewSet(
		credential.Entry{Key: credential.KeyMongoURI, Value: "mongodb://db:27017/dorm?w=majority&x=100%"},
		credential.Entry{Key: credential.KeySessionPassword, Value: "s3cr3t"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestScriptName(t *testing.T) {
	t.Parallel()

	if got := ScriptName("DormNet"); got != "install_dormnet_service.bat" {
		t.Errorf("ScriptName = %q", got)
	}
}

func TestNSSMRenderScript(t *testing.T) {
	t.Parallel()

	manager, _ := newTestNSSM(t)
	content, err := manager.RenderScript(Registration{
		WorkingDir:  `C:\dormnet`,
		EnvFile:     `C:\dormnet\.env`,
		Credentials: testCredentials(t),
	})
	if err != nil {
		t.Fatalf("RenderScript: %v", err)
	}

	for _, fragment := range []string{
		`nssm install DormNet "%RUNTIME%" "start"`,
		`nssm set DormNet AppDirectory "C:\dormnet"`,
		`"MONGO_URI=mongodb://db:27017/dorm?w=majority&x=100%%"`,
		`"SESSION_PASSWORD=s3cr3t"`,
		"nssm start DormNet",
	} {
		if !strings.Contains(content, fragment) {
			t.Errorf("script missing %q:\n%s", fragment, content)
		}
	}
}

func TestNSSMRenderScript_ReadsEnvFile(t *testing.T) {
	t.Parallel()

	manager, _ := newTestNSSM(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := credential.Write(envFile, testCredentials(t)); err != nil {
		t.Fatal(err)
	}

	content, err := manager.RenderScript(Registration{WorkingDir: `C:\dormnet`, EnvFile: envFile})
	if err != nil {
		t.Fatalf("RenderScript: %v", err)
	}
	if !strings.Contains(content, `"SESSION_PASSWORD=s3cr3t"`) {
		t.Errorf("credentials from env file not embedded:\n%s", content)
	}
}

func TestNSSMRegister(t *testing.T) {
	t.Parallel()

	manager, runner := newTestNSSM(t)
	err := manager.Register(context.Background(), Registration{WorkingDir: `C:\dormnet`, Credentials: testCredentials(t)})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	requireCredentialMode(t, manager.ScriptPath())

	calls := runner.Calls()
	if len(calls) != 1 || calls[0].Name != "cmd" || !slices.Equal(calls[0].Args, []string{"/C", manager.ScriptPath()}) {
		t.Errorf("commands = %q, want cmd /C %s", runner.CommandLines(), manager.ScriptPath())
	}
}

func TestNSSMRegister_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		launch         bool
		managerChanged bool
	}{
		{"script exits non-zero", false, true},
		{"cmd missing", true, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			manager, runner := newTestNSSM(t)
			commandLine := "cmd /C " + manager.ScriptPath()
			if test.launch {
				runner.FailLaunch(commandLine)
			} else {
				runner.FailExit(commandLine, 1)
			}

			err := manager.Register(context.Background(), Registration{WorkingDir: `C:\dormnet`, Credentials: testCredentials(t)})
			var registrationError *RegistrationError
			if !errors.As(err, &registrationError) {
				t.Fatalf("Register error = %v, want *RegistrationError", err)
			}
			if registrationError.Stage != StageRun {
				t.Errorf("stage = %s, want %s", registrationError.Stage, StageRun)
			}
			if registrationError.ManagerChanged != test.managerChanged {
				t.Errorf("ManagerChanged = %v, want %v", registrationError.ManagerChanged, test.managerChanged)
			}
		})
	}
}

func TestNSSMDeregister(t *testing.T) {
	t.Parallel()

	manager, runner := newTestNSSM(t)
	runner.FailExit("nssm stop DormNet", 1)

	err := manager.Deregister(context.Background())
	if err == nil {
		t.Fatal("Deregister should report the stop failure")
	}
	want := []string{"nssm stop DormNet", "nssm remove DormNet confirm"}
	if got := runner.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("commands = %q, want %q", got, want)
	}
}

// requireCredentialMode fails unless path exists and, where Unix
// permissions apply, is readable by its owner only.
func requireCredentialMode(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("%s not written: %v", path, err)
	}
	if runtime.GOOS == "windows" {
		return
	}
	if info.Mode().Perm() != credential.FileMode {
		t.Errorf("%s mode = %o, want %o", path, info.Mode().Perm(), credential.FileMode)
	}
}

func TestNSSMRegister_NarrowsExistingScriptMode(t *testing.T) {
	t.Parallel()

	manager, _ := newTestNSSM(t)
	if err := os.WriteFile(manager.ScriptPath(), []byte("old"), 0o644); err != nil {
		t.Fatalf("writing old script: %v", err)
	}
	if err := manager.Register(context.Background(), Registration{WorkingDir: `C:\dormnet`, Credentials: testCredentials(t)}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	requireCredentialMode(t, manager.ScriptPath())
}
